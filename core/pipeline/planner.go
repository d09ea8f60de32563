// Package pipeline plans and runs command lines as chains of external
// processes connected by pipes.
package pipeline

import (
	"strings"
)

// Separator divides the stages of a pipeline.
const Separator = "|"

// Plan is a command line divided into its stages.
type Plan struct {
	// Line is the source line.
	Line string
	// Stages holds the raw text of each stage, first writer first.
	Stages []string
}

// Pipes returns the number of pipes needed to connect the stages.
func (p *Plan) Pipes() int {
	return len(p.Stages) - 1
}

// Single is true when the line runs as one process without pipes.
func (p *Plan) Single() bool {
	return len(p.Stages) == 1
}

// NewPlan divides line into its stages.
func NewPlan(line string) *Plan {
	return &Plan{
		Line:   line,
		Stages: PlanStages(line),
	}
}

// CountStages returns the number of pipes in line, one less than the number
// of stages.
func CountStages(line string) int {
	return strings.Count(line, Separator)
}

// PlanStages returns the raw, trimmed text of every stage in line from left
// to right. Empty stages, as in "a||b", are kept so the result always holds
// CountStages(line)+1 elements; they fail when spawned.
func PlanStages(line string) []string {
	stages := strings.Split(line, Separator)
	for i, stage := range stages {
		stages[i] = strings.TrimSpace(stage)
	}
	return stages
}
