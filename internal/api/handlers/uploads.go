package handlers

import (
	"encoding/json"
	"net/http"

	"HappyDog/internal/api/middleware"
	"HappyDog/internal/storage"
)

// UploadHandler mints signed upload URLs.
type UploadHandler struct {
	store storage.Store
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(store storage.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

type uploadURLRequest struct {
	UploadType  string `json:"upload_type"`
	ContentType string `json:"content_type"`
}

// HandleCreateUploadURL issues a signed PUT URL.
// POST /api/uploads/url
func (h *UploadHandler) HandleCreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}
	if req.UploadType == "" {
		WriteError(w, http.StatusBadRequest, CodeValidation, "upload_type is required")
		return
	}
	if req.ContentType == "" {
		WriteError(w, http.StatusBadRequest, CodeValidation, "content_type is required")
		return
	}

	signed, err := h.store.GenerateUploadURL(r.Context(), req.UploadType, middleware.GetUserID(r), req.ContentType)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, signed)
}
