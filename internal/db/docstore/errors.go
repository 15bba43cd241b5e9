package docstore

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when a transaction keeps colliding after the
	// retry budget is exhausted.
	ErrConflict = errors.New("transaction conflict")

	// ErrInvalidCursor is returned for malformed pagination cursors.
	ErrInvalidCursor = errors.New("invalid pagination cursor")
)
