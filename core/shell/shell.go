// Package shell reads command lines, runs builtins in-process and hands
// everything else to the pipeline executor.
package shell

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/josephlewis42/sish/core/config"
	"github.com/josephlewis42/sish/core/history"
	"github.com/josephlewis42/sish/core/logger"
	"github.com/josephlewis42/sish/core/pipeline"
	"github.com/josephlewis42/sish/core/shellerr"
)

const DefaultPrompt = "sish> "

type Shell struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Readline is only set while running interactively.
	Readline *readline.Instance
	History  *history.Store
	Executor *pipeline.Executor
	Events   *logger.SessionLogger

	Prompt      string
	promptColor *color.Color
	errColor    *color.Color

	// Set to true to quit the shell
	Quit bool
	// ExitCode is the status the interpreter ends with.
	ExitCode int

	// recall is the line a "history N" builtin asked to run next.
	recall    *string
	recalling bool

	cfg     *config.Configuration
	toClose listCloser
}

// NewShell creates an interpreter configured by cfg. The history file is
// loaded and the event log opened if the configuration enables them.
func NewShell(cfg *config.Configuration, stdio pipeline.Stdio) (*Shell, error) {
	s := &Shell{
		Stdin:  stdio.Stdin,
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,

		History: history.New(cfg.History.Size),
		Executor: &pipeline.Executor{
			Stdin:   stdio.Stdin,
			Stdout:  stdio.Stdout,
			Stderr:  stdio.Stderr,
			Quoting: cfg.Quoting,
		},
		Events: logger.NopLogger().NewSession(),
		Prompt: cfg.Prompt,

		cfg: cfg,
	}
	s.setColor(cfg.Color)

	if cfg.HistoryEnabled() {
		fs, path := cfg.HistoryFs()
		if err := history.Load(fs, path, s.History); err != nil {
			return nil, err
		}
	}

	if cfg.EventLogEnabled() {
		fd, err := cfg.OpenEventLog()
		if err != nil {
			return nil, err
		}
		s.toClose = append(s.toClose, fd)
		s.Events = logger.NewJsonLinesLogRecorder(fd).NewSession()
	}

	return s, nil
}

func (s *Shell) setColor(mode string) {
	s.promptColor = color.New(color.FgGreen, color.Bold)
	s.errColor = color.New(color.FgRed)

	enabled := false
	switch mode {
	case config.ColorAlways:
		enabled = true
	case config.ColorAuto:
		enabled = isTerminal(s.Stdout)
	}

	for _, c := range []*color.Color{s.promptColor, s.errColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

func isTerminal(v interface{}) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *Shell) prompt() string {
	prompt := s.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return s.promptColor.Sprint(prompt)
}

// Run reads lines until end of input or an exit builtin and returns the exit
// status. A terminal gets a line editor with a prompt, other input is read a
// line at a time without one.
func (s *Shell) Run() int {
	if !isTerminal(s.Stdin) {
		return s.runScript()
	}
	return s.runInteractive()
}

// runScript reads Stdin without buffering so programs that share it start
// reading right after the line that ran them.
func (s *Shell) runScript() int {
	for !s.Quit {
		line, err := readLine(s.Stdin)
		switch {
		case err == io.EOF:
			return s.ExitCode
		case err != nil:
			log.Printf("Error reading input: %v", err)
			return 1
		}
		s.Eval(line)
	}
	return s.ExitCode
}

// readLine reads up to and including the next newline a byte at a time. A
// final line without a newline is returned before io.EOF.
func readLine(r io.Reader) (string, error) {
	var (
		line []byte
		buf  [1]byte
	)
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			if buf[0] == '\n' {
				return string(line), nil
			}
			line = append(line, buf[0])
		}

		switch {
		case err == io.EOF && len(line) > 0:
			return string(line), nil
		case err != nil:
			return "", err
		}
	}
}

func (s *Shell) runInteractive() int {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(s.Stdin),
		Stdout: s.Stdout,
		Stderr: s.Stderr,
		FuncIsTerminal: func() bool {
			return true
		},
	}
	if err := cfg.Init(); err != nil {
		log.Printf("Error readline: %v", err)
		return 1
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		log.Printf("Error readline: %v", err)
		return 1
	}
	defer rl.Close()
	s.Readline = rl
	defer func() { s.Readline = nil }()

	for _, line := range s.History.List() {
		rl.SaveHistory(line)
	}

	for !s.Quit {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			return s.ExitCode // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			return 1

		default:
			s.Eval(line)
		}
	}
	return s.ExitCode
}

// Eval runs a line and reports any failure on Stderr. A fatal failure sets
// Quit with exit status 1.
func (s *Shell) Eval(line string) {
	err := s.RunLine(line)
	if err == nil {
		return
	}

	for _, e := range shellerr.Flatten(err) {
		s.errColor.Fprintf(s.Stderr, "sish: %v\n", e)
	}

	if shellerr.Fatal(err) {
		s.Quit = true
		s.ExitCode = 1
	}
}

// RunLine runs one input line. Blank lines are ignored, anything else is
// added to the history before it runs.
func (s *Shell) RunLine(line string) error {
	line = Normalize(line)
	if strings.TrimSpace(line) == "" {
		return nil
	}

	s.History.Append(line)
	return s.execute(line)
}

func (s *Shell) execute(line string) error {
	plan := pipeline.NewPlan(line)
	if !plan.Single() {
		result, err := s.Executor.RunPipeline(plan.Stages)
		s.recordRun(line, result, err)
		return err
	}

	argv, err := s.Executor.Args(plan.Stages[0])
	if err != nil {
		s.recordError(line, nil, err)
		return err
	}

	if len(argv) > 0 {
		if builtin, ok := AllBuiltins[argv[0]]; ok {
			return s.runBuiltin(line, builtin, argv)
		}
	}

	result, err := s.Executor.RunSingle(argv)
	s.recordRun(line, result, err)
	return err
}

func (s *Shell) runBuiltin(line string, builtin Builtin, argv []string) error {
	s.recall = nil
	if err := builtin.Main(s, argv); err != nil {
		s.recordError(line, argv, err)
		return err
	}
	s.record(logger.Entry{Type: logger.EventBuiltin, Line: line, Command: argv})

	if s.recall == nil {
		return nil
	}

	recalled := *s.recall
	s.recall = nil
	s.record(logger.Entry{Type: logger.EventHistoryRecall, Line: recalled, Command: argv})

	// The recalled line runs as is without being added to the history again.
	s.recalling = true
	defer func() { s.recalling = false }()
	return s.execute(recalled)
}

// Close saves the history and releases any open logs.
func (s *Shell) Close() error {
	var err error
	if s.cfg != nil && s.cfg.HistoryEnabled() {
		fs, path := s.cfg.HistoryFs()
		err = history.Save(fs, path, s.History)
	}

	if closeErr := s.toClose.Close(); err == nil {
		err = closeErr
	}
	return err
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// Stdio returns the process's standard streams.
func Stdio() pipeline.Stdio {
	return pipeline.Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}
