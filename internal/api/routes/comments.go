package routes

import (
	"HappyDog/internal/api/handlers"
	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/comments"

	"github.com/go-chi/chi/v5"
)

// RegisterCommentRoutes registers comment endpoints. Listing is public,
// writes require auth.
func RegisterCommentRoutes(r chi.Router, service comments.Service, auth *middleware.AuthMiddleware) {
	handler := handlers.NewCommentHandler(service)

	r.Get("/api/posts/{post_id}/comments", handler.HandleList)

	r.With(auth.RequireAuth).Post("/api/posts/{post_id}/comments", handler.HandleCreate)
	r.With(auth.RequireAuth).Delete("/api/comments/{comment_id}", handler.HandleDelete)
}
