package posts

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a post does not exist.
	ErrNotFound = errors.New("post not found")

	// ErrNotAuthor is returned when a caller tries to modify a post they
	// did not write.
	ErrNotAuthor = errors.New("caller is not the post author")

	// ErrNoPet is returned when the author has no registered pet to tag.
	ErrNoPet = errors.New("author has no registered pet")
)

// ValidationError represents an invalid post payload.
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
