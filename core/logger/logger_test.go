package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLinesLogRecorder(t *testing.T) {
	var buf bytes.Buffer
	lgr := NewJsonLinesLogRecorder(&buf)
	lgr.now = func() time.Time { return time.Unix(10, 500000) }

	session := lgr.NewSession()
	require.NoError(t, session.Record(Entry{
		Type:      EventRunCommand,
		Line:      "echo hi | tr a-z A-Z",
		Command:   []string{"echo", "tr"},
		ExitCodes: []int{0, 1},
		Pids:      []int{4242, 4243},
	}))
	require.NoError(t, session.Record(Entry{
		Type:    EventCommandNotFound,
		Line:    "nope",
		Command: []string{"nope"},
		Error:   "nope: command not found",
	}))

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"), "one line per entry")

	var got []*Entry
	require.NoError(t, ReadJSONLinesLog(&buf, func(le *Entry) {
		got = append(got, le)
	}))

	require.Len(t, got, 2)
	assert.Equal(t, &Entry{
		TimestampMicros: 10000500,
		SessionID:       session.SessionID(),
		Type:            EventRunCommand,
		Line:            "echo hi | tr a-z A-Z",
		Command:         []string{"echo", "tr"},
		ExitCodes:       []int{0, 1},
		Pids:            []int{4242, 4243},
	}, got[0])
	assert.Equal(t, EventCommandNotFound, got[1].Type)
	assert.Equal(t, "nope: command not found", got[1].Error)
	assert.Nil(t, got[1].ExitCodes)
	assert.Nil(t, got[1].Pids)
}

func TestSessionLogger_SessionID(t *testing.T) {
	lgr := NopLogger()
	a, b := lgr.NewSession(), lgr.NewSession()
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestSessionLogger_RecordError(t *testing.T) {
	want := errors.New("disk full")
	lgr := &Logger{Record: func(*Entry) error { return want }}

	assert.Equal(t, want, lgr.NewSession().Record(Entry{Type: EventBuiltin}))
}

func TestNopLogger(t *testing.T) {
	assert.NoError(t, NopLogger().NewSession().Record(Entry{Type: EventBuiltin}))
}

func TestReadJSONLinesLog_invalid(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader("{not json"), func(*Entry) {
		t.Fatal("handler called for invalid input")
	})
	assert.Error(t, err)
}
