package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIntegrity signals the delete ordering contract was violated
	// inside the engine itself; never retried, always aborts the run.
	ErrIntegrity = errors.New("referential integrity violation")
)
