package shell

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/pborman/getopt/v2"

	"github.com/josephlewis42/sish/core/history"
	"github.com/josephlewis42/sish/core/shellerr"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]Builtin)

// Builtin is a command run inside the interpreter rather than as a process.
// A returned error is reported but never ends the interpreter.
type Builtin interface {
	Main(s *Shell, args []string) error
}

type BuiltinFunc func(s *Shell, args []string) error

func (f BuiltinFunc) Main(s *Shell, args []string) error {
	return f(s, args)
}

var _ Builtin = (BuiltinFunc)(nil)

// BuiltinNames lists the registered builtins alphabetically.
func BuiltinNames() []string {
	var names []string
	for k := range AllBuiltins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Cd changes the working directory of the interpreter. Extra arguments are
// ignored. Any path that can't be entered is reported as missing.
func Cd(s *Shell, args []string) error {
	if len(args) < 2 {
		return shellerr.Usagef(args[0], "argument needed")
	}

	if err := os.Chdir(args[1]); err != nil {
		return shellerr.Usagef(args[0], "%s: no such file or directory", args[1])
	}
	return nil
}

// Exit quits the shell
func Exit(s *Shell, args []string) error {
	s.Quit = true
	s.ExitCode = 0
	return nil
}

// History lists, clears or recalls remembered lines.
func History(s *Shell, args []string) error {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")
	opts.SetParameters("[N]")

	// Negative offsets would otherwise be taken for options.
	for _, arg := range args[1:] {
		if len(arg) > 1 && arg[0] == '-' && isDigit(arg[1]) {
			return shellerr.Usagef(args[0], "%s: numeric argument required", arg)
		}
	}

	if err := opts.Getopt(args, nil); err != nil {
		return shellerr.Usagef(args[0], "%v", err)
	}

	if *helpOpt {
		w := s.Stdout
		fmt.Fprintln(w, "usage: history [-c] [N]")
		fmt.Fprintln(w, "Display or manipulate the history list.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "With no arguments, display the history list with line numbers.")
		fmt.Fprintln(w, "With N, run the line numbered N again.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return nil
	}

	if *clear {
		s.History.Clear()
		if s.Readline != nil {
			s.Readline.Operation.ResetHistory()
		}
		return nil
	}

	if opts.NArgs() == 0 {
		for i, line := range s.History.List() {
			fmt.Fprintf(s.Stdout, "%d %s\n", i, line)
		}
		return nil
	}

	arg := opts.Arg(0)
	if !isNumeric(arg) {
		return shellerr.Usagef(args[0], "%s: numeric argument required", arg)
	}

	// A recalled line may not recall another, or "history N" could run itself
	// forever.
	if s.recalling {
		return shellerr.Usagef(args[0], "%s: a recalled line can't recall history", arg)
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		// Only overflow is possible once every rune is a digit.
		return shellerr.Usagef(args[0], "%s: index out of bound", arg)
	}

	line, err := s.History.Recall(n)
	if err != nil {
		if errors.Is(err, history.ErrOutOfBound) {
			return shellerr.Usagef(args[0], "%s: index out of bound", arg)
		}
		return shellerr.New(shellerr.KindUsage, args[0], err)
	}

	s.recall = &line
	return nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isNumeric is true for a non-empty run of decimal digits, signs excluded.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func init() {
	AllBuiltins["cd"] = BuiltinFunc(Cd)
	AllBuiltins["exit"] = BuiltinFunc(Exit)
	AllBuiltins["logout"] = BuiltinFunc(Exit)
	AllBuiltins["history"] = BuiltinFunc(History)
}
