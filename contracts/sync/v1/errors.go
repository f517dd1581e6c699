package v1

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection means the broker could not be reached.
	ErrConnection = errors.New("broker connection unavailable")
	// ErrChannelUnavailable means no channel is open for the target queue.
	ErrChannelUnavailable = errors.New("broker channel unavailable")
	// ErrEncoding covers envelope serialization and deserialization failures.
	ErrEncoding = errors.New("envelope encoding failed")
	// ErrUnknownChangedKey is returned for keys the sender cannot emit.
	ErrUnknownChangedKey = errors.New("unknown changed key")
	// ErrValidation means a required changed-data field is missing or mistyped.
	ErrValidation = errors.New("changed data validation failed")
	// ErrPartialApply means some but not all targeted entities were updated.
	ErrPartialApply = errors.New("reconciliation partially applied")
	// ErrReferencedEntityMissing means a named user, project or team does not exist locally.
	ErrReferencedEntityMissing = errors.New("referenced entity missing")
	// ErrInvalidProjectRef is returned by ParseProjectRef and NewProjectRef.
	ErrInvalidProjectRef = errors.New("invalid project reference")
	// ErrEntityPanic wraps a panic raised while updating one entity.
	ErrEntityPanic = errors.New("entity update panicked")
)

// ValidationError describes a single changed-data field problem.
type ValidationError struct {
	Field   string
	Want    DataType
	Got     DataType
	Missing bool
	Reason  string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Missing:
		return fmt.Sprintf("%s: field %q missing", ErrValidation, e.Field)
	case e.Reason != "":
		return fmt.Sprintf("%s: field %q %s", ErrValidation, e.Field, e.Reason)
	default:
		return fmt.Sprintf("%s: field %q is %s, want %s", ErrValidation, e.Field, e.Got, e.Want)
	}
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PartialApplyError reports how many entity updates landed.
type PartialApplyError struct {
	Attempted int
	Applied   int
	Failures  []EntityFailure
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("%s: %d of %d entities updated", ErrPartialApply, e.Applied, e.Attempted)
}

func (e *PartialApplyError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrPartialApply)
	for _, failure := range e.Failures {
		errs = append(errs, failure.Err)
	}
	return errs
}
