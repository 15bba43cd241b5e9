package pets

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a pet does not exist.
	ErrNotFound = errors.New("pet not found")

	// ErrNotOwner is returned when the caller does not own the pet.
	ErrNotOwner = errors.New("caller does not own this pet")
)

// ValidationError carries field context for rejected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if err is a validation error.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
