package pipeline

import (
	"io"
	"io/fs"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/josephlewis42/sish/core/shellerr"
)

var (
	// ErrEmptyCommand is the cause reported for a stage with no program name.
	ErrEmptyCommand = errors.New("command not found")
)

// Stdio holds the standard streams a process starts with. A nil stream is
// connected to the null device.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Status is how a process terminated.
type Status struct {
	// ExitCode is the exit status, or -1 if the process was killed by a signal.
	ExitCode int
}

// Success is true for a zero exit status.
func (s Status) Success() bool {
	return s.ExitCode == 0
}

// Process is a running program started by Spawn.
type Process struct {
	Argv []string
	cmd  *exec.Cmd
}

// Spawn starts argv[0], searched for on PATH, with the remaining elements as
// its arguments. If env is nil the process inherits the environment.
//
// A program that can't be found or executed yields a KindNotFound error; any
// other failure to create the process is KindProcess.
func Spawn(argv []string, stdio Stdio, env []string) (*Process, error) {
	if len(argv) == 0 {
		return nil, shellerr.New(shellerr.KindNotFound, "", ErrEmptyCommand)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = stdio.Stdin
	cmd.Stdout = stdio.Stdout
	cmd.Stderr = stdio.Stderr
	cmd.Env = env

	if err := cmd.Start(); err != nil {
		return nil, classifyStartError(argv[0], err)
	}

	return &Process{Argv: argv, cmd: cmd}, nil
}

func classifyStartError(name string, err error) error {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return shellerr.New(shellerr.KindNotFound, name, errors.New("command not found"))
	case errors.Is(err, fs.ErrPermission):
		return shellerr.New(shellerr.KindNotFound, name, errors.New("permission denied"))
	default:
		return shellerr.New(shellerr.KindProcess, name, errors.Wrap(err, "unable to start process"))
	}
}

// Pid returns the operating system process ID.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Wait blocks until the process exits. A non-zero exit is reported in the
// Status, not as an error; the error is reserved for failures to wait.
func (p *Process) Wait() (Status, error) {
	err := p.cmd.Wait()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return Status{ExitCode: 0}, nil
	case errors.As(err, &exitErr):
		return Status{ExitCode: exitErr.ExitCode()}, nil
	default:
		return Status{ExitCode: -1}, shellerr.New(shellerr.KindProcess, p.Argv[0], errors.Wrap(err, "wait failed"))
	}
}
