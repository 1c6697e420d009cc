package harness

import (
	"github.com/roach88/launchcheck/internal/ir"
	"github.com/roach88/launchcheck/internal/store"
)

// RunOutcome is the validation result of one expanded test run.
type RunOutcome struct {
	Seq   int64       `json:"seq"`
	Index int         `json:"index"`
	Label string      `json:"label"`
	ID    string      `json:"id"`
	Args  ir.IRObject `json:"args"`
	Pass  bool        `json:"pass"`

	// Failure details, empty when Pass is true.
	Kind    string `json:"kind,omitempty"`
	Code    string `json:"code,omitempty"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
}

// Result is the outcome of validating every run of one generator.
type Result struct {
	SessionID string `json:"session_id"`

	// Seq is the logical clock value at which the session started.
	Seq int64 `json:"seq"`

	Source    string `json:"source,omitempty"`
	Generator string `json:"generator"`

	// Pass is true only if there was at least one run and every run passed.
	Pass bool `json:"pass"`

	Runs []RunOutcome `json:"runs"`

	// Errors holds one message per failed run, prefixed with the run's
	// display name. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for validation.
func NewResult(sessionID, generator string) *Result {
	return &Result{
		SessionID: sessionID,
		Generator: generator,
		Pass:      true,
		Runs:      []RunOutcome{},
		Errors:    []string{},
	}
}

// AddError adds an error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddOutcome records a run outcome, failing the result if the run failed.
func (r *Result) AddOutcome(o RunOutcome) {
	r.Runs = append(r.Runs, o)
	if !o.Pass {
		r.AddError(r.Generator + o.Label + ": " + o.Code + ": " + o.Message)
	}
}

// Failed returns the outcomes that did not pass, in run order.
func (r *Result) Failed() []RunOutcome {
	var failed []RunOutcome
	for _, o := range r.Runs {
		if !o.Pass {
			failed = append(failed, o)
		}
	}
	return failed
}

// toStore converts the result into store records.
func (r *Result) toStore() (store.Session, []store.Outcome) {
	sess := store.Session{
		ID:        r.SessionID,
		Seq:       r.Seq,
		Source:    r.Source,
		Generator: r.Generator,
		Pass:      r.Pass,
		RunCount:  len(r.Runs),
	}
	outcomes := make([]store.Outcome, len(r.Runs))
	for i, o := range r.Runs {
		outcomes[i] = store.Outcome{
			SessionID: r.SessionID,
			Seq:       o.Seq,
			Index:     o.Index,
			Label:     o.Label,
			RunID:     o.ID,
			Args:      o.Args,
			Pass:      o.Pass,
			Kind:      o.Kind,
			Code:      o.Code,
			Name:      o.Name,
			Message:   o.Message,
		}
	}
	return sess, outcomes
}
