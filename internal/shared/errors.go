package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates malformed caller input rejected before any write.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCorruptState indicates persisted state that failed to parse at startup.
	ErrCorruptState = errors.New("corrupt persisted state")
)
