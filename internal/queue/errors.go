package queue

import "errors"

var (
	// ErrEmpty is returned when a dequeue or fetch is attempted on an
	// empty queue. Hitting it indicates a programming error at the call
	// site; the queue packages never swallow it.
	ErrEmpty = errors.New("queue is empty")

	// ErrInvalidFinger is returned when the round-robin finger is outside
	// the live element range. This means the queue state is corrupted.
	ErrInvalidFinger = errors.New("queue finger out of range")

	// ErrDirectoryNotFound is returned when loading a file queue from a
	// directory that does not exist.
	ErrDirectoryNotFound = errors.New("queue directory not found")

	// ErrElementMismatch is returned by Durable.Remove when the element at
	// the given index is not the expected one. This means the queue was
	// mutated behind the caller's back.
	ErrElementMismatch = errors.New("queue element mismatch")
)
