package likes

import (
	"errors"
	"fmt"
)

// ErrSubjectNotFound is returned when the liked post or comment does not
// exist.
var ErrSubjectNotFound = errors.New("like subject not found")

// ValidationError represents an invalid toggle request.
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
