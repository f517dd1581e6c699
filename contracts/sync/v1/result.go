package v1

import "context"

// Handler applies one decoded envelope to local state. A returned error means
// nothing was applied (validation, store outage); per-entity failures are
// reported through ApplyResult instead.
type Handler func(ctx context.Context, envelope Envelope) (ApplyResult, error)

// Outcome classifies how much of a reconciliation landed.
type Outcome string

const (
	OutcomeNoop             Outcome = "noop"
	OutcomeAllSucceeded     Outcome = "all_succeeded"
	OutcomePartialSucceeded Outcome = "partial_succeeded"
	OutcomeAllFailed        Outcome = "all_failed"
)

// EntityFailure records why one targeted entity was not updated.
type EntityFailure struct {
	Key string
	Err error
}

// ApplyResult counts the per-entity writes a handler attempted.
type ApplyResult struct {
	Attempted int
	Applied   int
	Failures  []EntityFailure
}

func (r ApplyResult) Outcome() Outcome {
	switch {
	case r.Attempted == 0:
		return OutcomeNoop
	case r.Applied == r.Attempted:
		return OutcomeAllSucceeded
	case r.Applied == 0:
		return OutcomeAllFailed
	default:
		return OutcomePartialSucceeded
	}
}

// Err returns a *PartialApplyError when any targeted entity was not updated.
func (r ApplyResult) Err() error {
	if r.Applied == r.Attempted {
		return nil
	}
	return &PartialApplyError{Attempted: r.Attempted, Applied: r.Applied, Failures: r.Failures}
}
