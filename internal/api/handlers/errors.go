// Package handlers implements the HTTP surface: request decoding,
// auth-context extraction, service calls and the shared error envelope.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"HappyDog/internal/core/cartoons"
	"HappyDog/internal/core/comments"
	"HappyDog/internal/core/likes"
	"HappyDog/internal/core/noseprint"
	"HappyDog/internal/core/notifications"
	"HappyDog/internal/core/pets"
	"HappyDog/internal/core/posts"
	"HappyDog/internal/core/users"
	"HappyDog/internal/db/docstore"
	"HappyDog/internal/storage"
)

// Error codes of the shared envelope.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeForbidden  = "FORBIDDEN"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_SERVER_ERROR"
	CodeOverloaded = "OVERLOADED"
)

type errorEnvelope struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
}

// WriteJSON writes a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// WriteError writes the shared error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{ErrorCode: code, Message: message})
}

// MapError translates a service error into the envelope. Unrecognized
// errors become 500 without leaking internals.
func MapError(w http.ResponseWriter, err error) {
	switch {
	case isValidation(err):
		WriteError(w, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, noseprint.ErrNotOwner),
		errors.Is(err, pets.ErrNotOwner),
		errors.Is(err, posts.ErrNotAuthor),
		errors.Is(err, comments.ErrNotAuthor):
		WriteError(w, http.StatusForbidden, CodeForbidden, "you do not have access to this resource")
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, pets.ErrNotFound),
		errors.Is(err, posts.ErrNotFound),
		errors.Is(err, posts.ErrNoPet),
		errors.Is(err, comments.ErrNotFound),
		errors.Is(err, comments.ErrPostNotFound),
		errors.Is(err, likes.ErrSubjectNotFound),
		errors.Is(err, notifications.ErrNotFound),
		errors.Is(err, cartoons.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		WriteError(w, http.StatusNotFound, CodeNotFound, "resource not found")
	case errors.Is(err, cartoons.ErrInvalidState),
		errors.Is(err, docstore.ErrConflict):
		WriteError(w, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, cartoons.ErrOverloaded):
		WriteError(w, http.StatusServiceUnavailable, CodeOverloaded, "service is overloaded, try again later")
	case errors.Is(err, storage.ErrInvalidUploadType):
		WriteError(w, http.StatusBadRequest, CodeValidation, err.Error())
	default:
		slog.Error("unhandled service error", "error", err)
		WriteError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

func isValidation(err error) bool {
	return pets.IsValidationError(err) ||
		posts.IsValidationError(err) ||
		comments.IsValidationError(err) ||
		likes.IsValidationError(err) ||
		cartoons.IsValidationError(err)
}
