package logger

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

// EventType identifies what an Entry records.
type EventType string

const (
	// EventRunCommand is an external command or pipeline that ran.
	EventRunCommand EventType = "run_command"
	// EventBuiltin is a built-in that ran successfully.
	EventBuiltin EventType = "builtin"
	// EventCommandNotFound is a stage whose program couldn't be started.
	EventCommandNotFound EventType = "command_not_found"
	// EventProcessFailure is a fatal resource or process-control failure.
	EventProcessFailure EventType = "process_failure"
	// EventUsageError is a built-in invoked with invalid arguments.
	EventUsageError EventType = "usage_error"
	// EventHistoryRecall is a line recalled from history for execution.
	EventHistoryRecall EventType = "history_recall"
)

// Entry is one recorded event.
type Entry struct {
	TimestampMicros int64
	SessionID       string
	Type            EventType
	// Line is the command line that produced the event.
	Line string
	// Command is the argument vector of the program or built-in involved.
	Command []string
	// ExitCodes holds the exit status of each stage that ran.
	ExitCodes []int
	// Pids holds the process ID of each stage that ran.
	Pids  []int
	Error string
}

const (
	fieldTimestamp = "timestamp_micros"
	fieldSession   = "session_id"
	fieldType      = "type"
	fieldLine      = "line"
	fieldCommand   = "command"
	fieldExitCodes = "exit_codes"
	fieldPids      = "pids"
	fieldError     = "error"
)

func (e *Entry) toProto() (*structpb.Struct, error) {
	fields := map[string]interface{}{
		fieldTimestamp: e.TimestampMicros,
		fieldType:      string(e.Type),
	}

	if e.SessionID != "" {
		fields[fieldSession] = e.SessionID
	}
	if e.Line != "" {
		fields[fieldLine] = e.Line
	}
	if e.Error != "" {
		fields[fieldError] = e.Error
	}
	if len(e.Command) > 0 {
		command := make([]interface{}, len(e.Command))
		for i, arg := range e.Command {
			command[i] = arg
		}
		fields[fieldCommand] = command
	}
	if len(e.ExitCodes) > 0 {
		codes := make([]interface{}, len(e.ExitCodes))
		for i, code := range e.ExitCodes {
			codes[i] = code
		}
		fields[fieldExitCodes] = codes
	}
	if len(e.Pids) > 0 {
		pids := make([]interface{}, len(e.Pids))
		for i, pid := range e.Pids {
			pids[i] = pid
		}
		fields[fieldPids] = pids
	}

	msg, err := structpb.NewStruct(fields)
	return msg, errors.Wrap(err, "unable to encode log entry")
}

func entryFromProto(msg *structpb.Struct) *Entry {
	fields := msg.GetFields()

	entry := &Entry{
		TimestampMicros: int64(fields[fieldTimestamp].GetNumberValue()),
		SessionID:       fields[fieldSession].GetStringValue(),
		Type:            EventType(fields[fieldType].GetStringValue()),
		Line:            fields[fieldLine].GetStringValue(),
		Error:           fields[fieldError].GetStringValue(),
	}

	for _, v := range fields[fieldCommand].GetListValue().GetValues() {
		entry.Command = append(entry.Command, v.GetStringValue())
	}
	for _, v := range fields[fieldExitCodes].GetListValue().GetValues() {
		entry.ExitCodes = append(entry.ExitCodes, int(v.GetNumberValue()))
	}
	for _, v := range fields[fieldPids].GetListValue().GetValues() {
		entry.Pids = append(entry.Pids, int(v.GetNumberValue()))
	}

	return entry
}
