package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(s *Store, from, to int) {
	for i := from; i <= to; i++ {
		s.Append(fmt.Sprintf("%d", i))
	}
}

func TestStore_Append(t *testing.T) {
	s := New(DefaultCapacity)
	fill(s, 1, 3)

	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Full())
	assert.Equal(t, []string{"1", "2", "3"}, s.List())
}

func TestStore_Evicts(t *testing.T) {
	s := New(DefaultCapacity)
	fill(s, 1, 101)

	require.Equal(t, 100, s.Len())
	assert.True(t, s.Full())

	list := s.List()
	assert.Equal(t, "2", list[0])
	assert.Equal(t, "101", list[99])
	assert.NotContains(t, list, "1")

	for i, entry := range list {
		assert.Equal(t, fmt.Sprintf("%d", i+2), entry)
	}
}

func TestStore_EvictsRepeatedly(t *testing.T) {
	s := New(3)
	fill(s, 1, 10)

	assert.Equal(t, []string{"8", "9", "10"}, s.List())
	got, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "8", got)
}

func TestStore_Get(t *testing.T) {
	s := New(5)
	fill(s, 1, 2)

	got, err := s.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, "2", got)

	for _, i := range []int{-1, 2, 5} {
		_, err := s.Get(i)
		assert.ErrorIs(t, err, ErrNotFound, "index %d", i)
	}
}

func TestStore_Clear(t *testing.T) {
	s := New(3)
	fill(s, 1, 5)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List())

	s.Append("after")
	assert.Equal(t, []string{"after"}, s.List())
}

func TestStore_Recall(t *testing.T) {
	t.Run("not-full", func(t *testing.T) {
		s := New(DefaultCapacity)
		fill(s, 0, 9)

		got, err := s.Recall(5)
		assert.NoError(t, err)
		assert.Equal(t, "5", got)
	})

	t.Run("full-compensates", func(t *testing.T) {
		s := New(DefaultCapacity)
		fill(s, 0, 99)
		require.True(t, s.Full())

		want, err := s.Get(4)
		require.NoError(t, err)

		got, err := s.Recall(5)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("full-zero", func(t *testing.T) {
		s := New(3)
		fill(s, 1, 3)

		_, err := s.Recall(0)
		assert.ErrorIs(t, err, ErrOutOfBound)
	})

	t.Run("beyond-capacity", func(t *testing.T) {
		s := New(DefaultCapacity)
		fill(s, 0, 9)

		_, err := s.Recall(100)
		assert.ErrorIs(t, err, ErrOutOfBound)
	})

	t.Run("missing-entry", func(t *testing.T) {
		s := New(DefaultCapacity)
		fill(s, 0, 9)

		_, err := s.Recall(10)
		assert.ErrorIs(t, err, ErrOutOfBound)
	})
}

func TestStore_AppendCopies(t *testing.T) {
	s := New(2)
	buf := []byte("echo hi")
	s.Append(string(buf))
	buf[0] = 'X'

	got, _ := s.Get(0)
	assert.Equal(t, "echo hi", got)
}
