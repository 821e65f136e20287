package dispatch

import (
	"fmt"
	"strings"
)

// Command families recognized by the dispatcher.
const (
	CommandCall     = "call"
	CommandBulkSend = "bulk_send"
	CommandReport   = "report"
	CommandWorkflow = "workflow"
)

// Step is the outcome of one external call in an execution plan.
type Step struct {
	Action      string `json:"action"`
	Target      string `json:"target,omitempty"`
	Success     bool   `json:"success"`
	ReferenceID string `json:"reference_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Report is the aggregated outcome of one detected command. Completed means
// every planned step was issued; individual step failures are visible in the
// counts and steps, never raised as errors.
type Report struct {
	Command      string `json:"command"`
	Completed    bool   `json:"completed"`
	Steps        []Step `json:"steps,omitempty"`
	SuccessCount int    `json:"success_count"`
	FailureCount int    `json:"failure_count"`
	Summary      string `json:"summary"`
}

// tally fills the roll-up counts from the recorded steps.
func (r *Report) tally() {
	r.SuccessCount, r.FailureCount = 0, 0
	for _, s := range r.Steps {
		if s.Success {
			r.SuccessCount++
		} else {
			r.FailureCount++
		}
	}
}

// previewNames truncates a recipient list to its first max names, appending
// "+M more" for the remainder.
func previewNames(names []string, max int) string {
	if max <= 0 || len(names) <= max {
		return strings.Join(names, ", ")
	}
	rest := len(names) - max
	return fmt.Sprintf("%s, +%d more", strings.Join(names[:max], ", "), rest)
}
