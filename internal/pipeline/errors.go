package pipeline

import "errors"

var (
	// ErrResourceUnreadable is returned when an input file cannot be opened or read.
	ErrResourceUnreadable = errors.New("resource unreadable")

	// ErrWriteFailure is returned when the result cannot be written back.
	ErrWriteFailure = errors.New("write failure")
)
