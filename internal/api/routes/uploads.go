package routes

import (
	"HappyDog/internal/api/handlers"
	"HappyDog/internal/api/middleware"
	"HappyDog/internal/storage"

	"github.com/go-chi/chi/v5"
)

// RegisterUploadRoutes registers the signed upload URL endpoint.
func RegisterUploadRoutes(r chi.Router, store storage.Store, auth *middleware.AuthMiddleware) {
	handler := handlers.NewUploadHandler(store)

	r.With(auth.RequireAuth).Post("/api/uploads/url", handler.HandleCreateUploadURL)
}
