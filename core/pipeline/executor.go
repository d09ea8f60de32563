package pipeline

import (
	"io"

	"github.com/pkg/errors"

	"github.com/josephlewis42/sish/core/shellerr"
	"github.com/josephlewis42/sish/core/tokenize"
)

// StageResult describes how one stage of a command ran.
type StageResult struct {
	// Argv is the argument vector the stage was started with.
	Argv []string
	// Started is false if the stage never ran.
	Started bool
	// Pid is the operating system process ID of a started stage.
	Pid int
	// Status is valid when Started is true.
	Status Status
	// Err holds the stage's spawn or wait failure.
	Err error
}

// Result describes a completed command.
type Result struct {
	Stages []StageResult
}

// Success is true if every stage ran and exited with status zero.
func (r *Result) Success() bool {
	for _, s := range r.Stages {
		if !s.Started || !s.Status.Success() {
			return false
		}
	}
	return true
}

// Executor runs planned command lines as processes.
type Executor struct {
	// Stdin feeds the first stage.
	Stdin io.Reader
	// Stdout receives the last stage's output.
	Stdout io.Writer
	// Stderr is shared by every stage.
	Stderr io.Writer
	// Env is the environment of each process, nil to inherit.
	Env []string
	// Quoting splits stages into words honoring quotes rather than on
	// whitespace alone.
	Quoting bool
}

// Args computes the argument vector of a stage.
func (e *Executor) Args(stage string) ([]string, error) {
	if !e.Quoting {
		return tokenize.Fields(stage), nil
	}

	argv, err := tokenize.QuotedFields(stage)
	if err != nil {
		return nil, shellerr.New(shellerr.KindUsage, "", err)
	}
	return argv, nil
}

// Run plans line and executes it, as a single process when it has no pipes.
func (e *Executor) Run(line string) (*Result, error) {
	plan := NewPlan(line)
	if plan.Single() {
		argv, err := e.Args(plan.Stages[0])
		if err != nil {
			return &Result{Stages: []StageResult{{Err: err}}}, err
		}
		return e.RunSingle(argv)
	}
	return e.RunPipeline(plan.Stages)
}

// RunSingle starts argv without any pipes and waits for it.
func (e *Executor) RunSingle(argv []string) (*Result, error) {
	result := &Result{Stages: []StageResult{{Argv: argv}}}
	stage := &result.Stages[0]

	proc, err := Spawn(argv, Stdio{Stdin: e.Stdin, Stdout: e.Stdout, Stderr: e.Stderr}, e.Env)
	if err != nil {
		stage.Err = err
		return result, err
	}
	stage.Started = true
	stage.Pid = proc.Pid()

	stage.Status, stage.Err = proc.Wait()
	return result, stage.Err
}

// RunPipeline connects stages with pipes, runs them concurrently and waits
// for all of them.
//
// Every pipe is allocated before the first process starts. A stage whose
// program can't be found is reported and skipped while its siblings still
// run; its neighbors see end of stream once the controller closes its pipe
// ends. A failure to create a process stops any further stages from
// starting. Stages are waited for in order, and the first wait failure is
// returned after the remaining stages have been reaped.
func (e *Executor) RunPipeline(stages []string) (*Result, error) {
	if len(stages) < 2 {
		return nil, errors.Errorf("pipeline needs at least 2 stages, got %d", len(stages))
	}

	result := &Result{Stages: make([]StageResult, len(stages))}

	pipes, err := NewPipeSet(len(stages) - 1)
	if err != nil {
		return result, err
	}

	procs := e.spawnStages(stages, pipes, result)

	// The controller owns no endpoint once the stages have theirs.
	if err := pipes.CloseAll(); err != nil {
		// Every process is already running, so keep going and reap them.
		procs.waitAll(result)
		return result, shellerr.New(shellerr.KindResource, "pipe", errors.Wrap(err, "unable to close pipes"))
	}

	return result, procs.waitAll(result)
}

type stageProcs []*Process

func (e *Executor) spawnStages(stages []string, pipes *PipeSet, result *Result) stageProcs {
	last := len(stages) - 1
	procs := make(stageProcs, len(stages))

	for i, stage := range stages {
		stdio := Stdio{Stdin: e.Stdin, Stdout: e.Stdout, Stderr: e.Stderr}
		if i > 0 {
			stdio.Stdin = pipes.Reader(i - 1)
		}
		if i < last {
			stdio.Stdout = pipes.Writer(i)
		}

		argv, err := e.Args(stage)
		result.Stages[i].Argv = argv
		if err == nil {
			procs[i], err = Spawn(argv, stdio, e.Env)
		}
		if err != nil {
			result.Stages[i].Err = atStage(err, i)
			if shellerr.Fatal(err) {
				break
			}
			continue
		}
		result.Stages[i].Started = true
		result.Stages[i].Pid = procs[i].Pid()
	}

	return procs
}

// waitAll reaps every started process in stage order. Spawn failures are
// collected into a List, a wait failure takes precedence as it is fatal.
func (procs stageProcs) waitAll(result *Result) error {
	var (
		waitErr error
		errs    shellerr.List
	)

	for i, proc := range procs {
		if proc == nil {
			if result.Stages[i].Err != nil {
				errs = append(errs, result.Stages[i].Err)
			}
			continue
		}

		status, err := proc.Wait()
		result.Stages[i].Status = status
		if err != nil {
			result.Stages[i].Err = atStage(err, i)
			if waitErr == nil {
				waitErr = result.Stages[i].Err
			}
		}
	}

	if waitErr != nil {
		return waitErr
	}
	return errs.ErrorOrNil()
}

func atStage(err error, i int) error {
	var classified *shellerr.Error
	if errors.As(err, &classified) {
		withStage := *classified
		withStage.Stage = i + 1
		return &withStage
	}
	return err
}
