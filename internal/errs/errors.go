package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	// ErrInvalid covers malformed or non-positive amounts and empty required fields.
	ErrInvalid = errors.New("invalid_argument")
	// ErrInsufficientFunds indicates a withdrawal larger than the current balance.
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrNotFound          = errors.New("not_found")
	// ErrIO wraps export/save I/O failures surfaced to the caller.
	ErrIO = errors.New("io_failure")
)
