package core

import "errors"

// Failure classes the workflow branches on. Services wrap these with
// fmt.Errorf("%w: ...") so callers can test them with errors.Is.
var (
	// ErrValidation marks bad user input: a non-numeric or non-positive
	// quantity, or a negative price. The draft is left untouched and the
	// transport re-prompts the same step.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState marks an operation invoked out of sequence: no active
	// draft for the session, a draft already active when starting, or a step
	// mismatch.
	ErrInvalidState = errors.New("invalid state")

	// ErrEmptyDraft is returned when finalizing a draft with zero lines.
	ErrEmptyDraft = errors.New("draft has no lines")

	// ErrNotFound marks a referenced product or counterparty that no longer
	// exists between prompt render and selection.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a finalize attempt that failed in storage. Nothing
	// was persisted; the draft is preserved and finalize may be retried.
	ErrConflict = errors.New("persistence conflict")
)
