// Package history holds the bounded log of accepted command lines.
package history

import (
	"errors"
)

// DefaultCapacity is the number of entries kept when no size is configured.
const DefaultCapacity = 100

var (
	// ErrNotFound is returned by Get for an index with no entry.
	ErrNotFound = errors.New("no such history entry")
	// ErrOutOfBound is returned by Recall for an index that can't be recalled.
	ErrOutOfBound = errors.New("index out of bound")
)

// Store is a fixed capacity, insertion ordered ring of command lines.
// Index 0 is always the oldest entry. Appending to a full store evicts the
// oldest entry and shifts every other index down by one.
type Store struct {
	entries []string
	head    int
	length  int
}

// New creates an empty store holding at most capacity entries.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Store{entries: make([]string, capacity)}
}

// Append adds entry as the newest line, evicting the oldest when full.
func (s *Store) Append(entry string) {
	// Take a private copy so the store never aliases the caller's buffer.
	entry = string(append([]byte(nil), entry...))

	if s.Full() {
		s.entries[s.head] = entry
		s.head = (s.head + 1) % len(s.entries)
		return
	}

	s.entries[s.slot(s.length)] = entry
	s.length++
}

// Get returns the entry at logical index i.
func (s *Store) Get(i int) (string, error) {
	if i < 0 || i >= s.length {
		return "", ErrNotFound
	}
	return s.entries[s.slot(i)], nil
}

// Recall fetches a line for re-execution by the index a user typed.
//
// The line requesting the recall has already been appended by the time it
// runs, so on a full store every entry the user saw moved down one slot; n is
// adjusted to n-1 in that case.
func (s *Store) Recall(n int) (string, error) {
	if n < 0 || n >= s.Cap() {
		return "", ErrOutOfBound
	}

	if s.Full() {
		n--
	}

	entry, err := s.Get(n)
	if err != nil {
		return "", ErrOutOfBound
	}
	return entry, nil
}

// Clear releases every entry.
func (s *Store) Clear() {
	for i := range s.entries {
		s.entries[i] = ""
	}
	s.head = 0
	s.length = 0
}

// List returns a copy of the entries, oldest first.
func (s *Store) List() []string {
	out := make([]string, s.length)
	for i := range out {
		out[i] = s.entries[s.slot(i)]
	}
	return out
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return s.length
}

// Cap returns the maximum number of entries.
func (s *Store) Cap() int {
	return len(s.entries)
}

// Full is true when the next Append will evict.
func (s *Store) Full() bool {
	return s.length == len(s.entries)
}

func (s *Store) slot(i int) int {
	return (s.head + i) % len(s.entries)
}
