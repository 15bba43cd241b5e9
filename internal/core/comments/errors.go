package comments

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a comment does not exist.
	ErrNotFound = errors.New("comment not found")

	// ErrNotAuthor is returned when a caller tries to delete a comment
	// they did not write.
	ErrNotAuthor = errors.New("caller is not the comment author")

	// ErrPostNotFound is returned when the commented post does not exist.
	ErrPostNotFound = errors.New("post not found")
)

// ValidationError represents an invalid comment payload.
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
