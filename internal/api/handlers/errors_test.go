package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HappyDog/internal/core/cartoons"
	"HappyDog/internal/core/comments"
	"HappyDog/internal/core/noseprint"
	"HappyDog/internal/core/pets"
	"HappyDog/internal/core/posts"
	"HappyDog/internal/db/docstore"
	"HappyDog/internal/storage"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation error", pets.NewValidationError("name", "is required"), http.StatusBadRequest, CodeValidation},
		{"not owner", noseprint.ErrNotOwner, http.StatusForbidden, CodeForbidden},
		{"not author", posts.ErrNotAuthor, http.StatusForbidden, CodeForbidden},
		{"pet not found", pets.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"post of comment missing", comments.ErrPostNotFound, http.StatusNotFound, CodeNotFound},
		{"foreign cartoon job", cartoons.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"staged object missing", storage.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"cancel terminal job", cartoons.ErrInvalidState, http.StatusConflict, CodeConflict},
		{"serialization conflict exhausted", docstore.ErrConflict, http.StatusConflict, CodeConflict},
		{"queue full", cartoons.ErrOverloaded, http.StatusServiceUnavailable, CodeOverloaded},
		{"bad upload type", storage.ErrInvalidUploadType, http.StatusBadRequest, CodeValidation},
		{"unknown error", errors.New("pq: connection reset"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			MapError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			env := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantCode, env.ErrorCode)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestMapError_WrappedErrorsStillMatch(t *testing.T) {
	rec := httptest.NewRecorder()
	MapError(rec, fmt.Errorf("admitting nose print: %w", pets.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decodeEnvelope(t, rec).ErrorCode)
}

func TestMapError_UnknownErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	MapError(rec, errors.New("dial tcp 10.0.0.5:5432: i/o timeout"))

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotContains(t, env.Message, "10.0.0.5")
}
