package shell

import (
	"log"

	"github.com/josephlewis42/sish/core/logger"
	"github.com/josephlewis42/sish/core/pipeline"
	"github.com/josephlewis42/sish/core/shellerr"
)

func (s *Shell) record(entry logger.Entry) {
	if err := s.Events.Record(entry); err != nil {
		log.Printf("unable to record event: %v", err)
	}
}

// recordRun logs a finished command: the stages that ran and then one entry
// per stage that failed.
func (s *Shell) recordRun(line string, result *pipeline.Result, err error) {
	if result == nil {
		s.recordError(line, nil, err)
		return
	}

	var (
		programs  []string
		exitCodes []int
		pids      []int
	)
	for _, stage := range result.Stages {
		if !stage.Started {
			continue
		}
		programs = append(programs, stage.Argv[0])
		exitCodes = append(exitCodes, stage.Status.ExitCode)
		pids = append(pids, stage.Pid)
	}
	if len(programs) > 0 {
		s.record(logger.Entry{
			Type:      logger.EventRunCommand,
			Line:      line,
			Command:   programs,
			ExitCodes: exitCodes,
			Pids:      pids,
		})
	}

	failed := false
	for _, stage := range result.Stages {
		if stage.Err != nil {
			s.recordError(line, stage.Argv, stage.Err)
			failed = true
		}
	}
	if !failed && err != nil {
		s.recordError(line, nil, err)
	}
}

func (s *Shell) recordError(line string, argv []string, err error) {
	entry := logger.Entry{Line: line, Command: argv, Error: err.Error()}
	switch kind := shellerr.KindOf(err); {
	case shellerr.Fatal(err):
		entry.Type = logger.EventProcessFailure
	case kind == shellerr.KindNotFound:
		entry.Type = logger.EventCommandNotFound
	default:
		entry.Type = logger.EventUsageError
	}
	s.record(entry)
}
