package cartoons

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a job does not exist or belongs to
	// another user. Ownership failures deliberately look identical to
	// missing jobs.
	ErrNotFound = errors.New("cartoon job not found")

	// ErrInvalidState is returned when a cancellation request arrives
	// while the job is not in PROCESSING.
	ErrInvalidState = errors.New("job is not in a cancelable state")

	// ErrOverloaded is returned when the worker queue stays full past
	// the submission timeout.
	ErrOverloaded = errors.New("cartoon worker queue is full")
)

// ValidationError represents an invalid submission payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
