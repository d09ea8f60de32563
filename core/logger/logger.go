package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *Entry) error

// Logger captures interpreter events.
type Logger struct {
	Record LogRecorder

	now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *Entry) error {
			msg, err := le.toProto()
			if err != nil {
				return err
			}
			entry, err := protojson.Marshal(msg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NopLogger creates a Logger that discards every event.
func NopLogger() *Logger {
	return &Logger{
		Record: func(*Entry) error { return nil },
	}
}

func (l *Logger) timestamp() int64 {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	return now().UnixNano() / int64(time.Microsecond)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every recorded entry.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record stamps the entry with the time and session and stores it.
func (l *SessionLogger) Record(entry Entry) error {
	entry.TimestampMicros = l.timestamp()
	entry.SessionID = l.sessionID

	return l.Logger.Record(&entry)
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *Entry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var msg structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &msg); err != nil {
			return err
		}

		handler(entryFromProto(&msg))
	}
	return nil
}
