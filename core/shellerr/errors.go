// Package shellerr classifies the failures the interpreter can report.
package shellerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the class of a failure, which decides whether the interpreter
// keeps running.
type Kind int

const (
	// KindUnknown is reported for errors that were never classified.
	KindUnknown Kind = iota
	// KindResource is an exhausted system resource such as pipe descriptors.
	KindResource
	// KindProcess is a failure to start or wait for a process.
	KindProcess
	// KindUsage is invalid input to a built-in.
	KindUsage
	// KindNotFound is a program that is missing, not executable or empty.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindProcess:
		return "process"
	case KindUsage:
		return "usage"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Error is a classified failure.
type Error struct {
	Kind Kind
	// Op names what failed, e.g. the built-in or the program.
	Op string
	// Stage is the 1-based pipeline stage, 0 outside pipelines.
	Stage int
	Err   error
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Stage > 0 {
		fmt.Fprintf(&sb, "stage %d: ", e.Stage)
	}
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString(e.Kind.String())
	}
	return sb.String()
}

// Unwrap implements error unwrapping.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements github.com/pkg/errors causer.
func (e *Error) Cause() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Usagef creates a KindUsage error with a formatted message.
func Usagef(op, format string, args ...interface{}) *Error {
	return New(KindUsage, op, fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}

	var list List
	if errors.As(err, &list) {
		for _, e := range list {
			if k := KindOf(e); k != KindUnknown {
				return k
			}
		}
	}
	return KindUnknown
}

// Fatal reports whether err must stop the interpreter. Only resource and
// process-control failures are fatal, anything else is reported and the
// read loop continues.
func Fatal(err error) bool {
	if err == nil {
		return false
	}

	var list List
	if errors.As(err, &list) {
		for _, e := range list {
			if Fatal(e) {
				return true
			}
		}
		return false
	}

	switch KindOf(err) {
	case KindResource, KindProcess:
		return true
	default:
		return false
	}
}

// List holds independent failures from a single command, in stage order.
type List []error

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// ErrorOrNil returns nil for an empty list, the only element for a list of
// one and the list otherwise.
func (l List) ErrorOrNil() error {
	switch len(l) {
	case 0:
		return nil
	case 1:
		return l[0]
	default:
		return l
	}
}

// Flatten returns the individual errors held by err.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if list, ok := err.(List); ok {
		return list
	}
	return []error{err}
}
