package executor

import (
	"fmt"
	"time"
)

// Action is an operation applied to an extension.
type Action string

const (
	ActionInstall   Action = "install"
	ActionConfigure Action = "configure"
	ActionValidate  Action = "validate"
	ActionUpgrade   Action = "upgrade"
	ActionRemove    Action = "remove"
)

// Outcome classifies the result of one action on one extension.
type Outcome string

const (
	// OutcomeSuccess means the action ran and completed.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed means the action ran and failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the action never ran, typically because a
	// dependency failed or the batch was aborted.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNoOp means the extension was already in the desired state.
	OutcomeNoOp Outcome = "no-op"
)

// FailPolicy controls how a batch reacts to a failure.
type FailPolicy int

const (
	// ContinueIndependentBranches skips extensions that depend on a failed
	// one but keeps executing unrelated extensions.
	ContinueIndependentBranches FailPolicy = iota
	// FailFast aborts the batch at the first failure.
	FailFast
)

// ItemReport is the outcome of one action on one extension.
type ItemReport struct {
	Name     string
	Outcome  Outcome
	Reason   string // populated for failed, skipped, and no-op outcomes
	Err      error  // underlying error for failed outcomes
	Duration time.Duration
}

// BatchReport collects the outcomes of a batch execution in input order.
type BatchReport struct {
	Action Action
	Items  []ItemReport
}

// Failed reports whether any item in the batch failed.
func (r *BatchReport) Failed() bool {
	for _, item := range r.Items {
		if item.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Counts returns the number of items per outcome.
func (r *BatchReport) Counts() (success, failed, skipped, noop int) {
	for _, item := range r.Items {
		switch item.Outcome {
		case OutcomeSuccess:
			success++
		case OutcomeFailed:
			failed++
		case OutcomeSkipped:
			skipped++
		case OutcomeNoOp:
			noop++
		}
	}
	return
}

// ExecutionError wraps a failure of one action on one extension.
type ExecutionError struct {
	Name   string
	Action Action
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Name, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
