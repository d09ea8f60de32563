package pipeline

import (
	"os"

	"github.com/pkg/errors"

	"github.com/josephlewis42/sish/core/shellerr"
)

// PipeEnds is one unidirectional pipe.
type PipeEnds struct {
	Read  *os.File
	Write *os.File
}

// PipeSet owns every pipe of a pipeline until CloseAll is called.
//
// The descriptors are created close-on-exec, so a stage only ever holds the
// two ends installed as its stdin and stdout. The controller must still call
// CloseAll once every stage has started, otherwise a live write end keeps the
// downstream reader from seeing end of stream.
type PipeSet struct {
	pipes  []PipeEnds
	closed bool
}

// NewPipeSet allocates n pipes. If any allocation fails the pipes created so
// far are closed and a KindResource error is returned.
func NewPipeSet(n int) (*PipeSet, error) {
	ps := &PipeSet{pipes: make([]PipeEnds, 0, n)}

	for i := 0; i < n; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			ps.CloseAll()
			return nil, &shellerr.Error{
				Kind: shellerr.KindResource,
				Op:   "pipe",
				Err:  errors.Wrapf(err, "unable to allocate pipe %d of %d", i+1, n),
			}
		}
		ps.pipes = append(ps.pipes, PipeEnds{Read: r, Write: w})
	}

	return ps, nil
}

// Len returns the number of pipes.
func (ps *PipeSet) Len() int {
	return len(ps.pipes)
}

// Reader returns the read end of pipe i.
func (ps *PipeSet) Reader(i int) *os.File {
	return ps.pipes[i].Read
}

// Writer returns the write end of pipe i.
func (ps *PipeSet) Writer(i int) *os.File {
	return ps.pipes[i].Write
}

// Open returns the number of endpoints the controller still holds.
func (ps *PipeSet) Open() int {
	if ps.closed {
		return 0
	}
	return 2 * len(ps.pipes)
}

// CloseAll closes both ends of every pipe. It is safe to call more than once;
// only the first call closes anything.
func (ps *PipeSet) CloseAll() error {
	if ps.closed {
		return nil
	}
	ps.closed = true

	var firstErr error
	for _, p := range ps.pipes {
		for _, f := range []*os.File{p.Read, p.Write} {
			if err := f.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
