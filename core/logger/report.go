package logger

import (
	"encoding/json"
	"fmt"
	"sort"
)

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		NotFound:    NewPathCounter("command", "error"),
		UsageErrors: NewPathCounter("builtin", "error"),
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	// Programs counts the programs started by each stage.
	Programs StrCounter `json:"programs"`
	// Builtins counts successful built-in invocations.
	Builtins StrCounter `json:"builtins"`
	// PipelineLengths counts commands by number of stages.
	PipelineLengths StrCounter `json:"pipeline_lengths"`
	// FailedStages counts programs that exited with a non-zero status.
	FailedStages StrCounter `json:"failed_stages"`

	NotFound    *PathCounter `json:"not_found"`
	UsageErrors *PathCounter `json:"usage_errors"`

	Recalls  int      `json:"history_recalls"`
	Failures []string `json:"process_failures"`
}

// Update adds a single entry to the report.
func (r *Report) Update(le *Entry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch le.Type {
	case EventRunCommand:
		r.updateRun(le)
	case EventBuiltin:
		if len(le.Command) > 0 {
			r.Builtins.Increment(le.Command[0])
		}
	case EventCommandNotFound:
		r.NotFound.Increment(firstOr(le.Command, ""), le.Error)
	case EventUsageError:
		r.UsageErrors.Increment(firstOr(le.Command, ""), le.Error)
	case EventHistoryRecall:
		r.Recalls++
	case EventProcessFailure:
		r.Failures = append(r.Failures, le.Error)
	default:
		r.InvalidEntries.Increment(string(le.Type))
	}
}

func (r *Report) updateRun(le *Entry) {
	// Command holds the program of each stage for runs.
	for i, program := range le.Command {
		r.Programs.Increment(program)
		if i < len(le.ExitCodes) && le.ExitCodes[i] != 0 {
			r.FailedStages.Increment(program)
		}
	}
	r.PipelineLengths.Increment(stageLabel(len(le.Command)))
}

func stageLabel(n int) string {
	if n == 1 {
		return "1 stage"
	}
	return fmt.Sprintf("%d stages", n)
}

func firstOr(vals []string, fallback string) string {
	if len(vals) == 0 {
		return fallback
	}
	return vals[0]
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of distinct tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
