package errors

import "errors"

var (
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStoreUnavailable marks a store failure that survived retries.
	// Callers may re-submit; arm state is unchanged.
	ErrStoreUnavailable = errors.New("store unavailable")
)
