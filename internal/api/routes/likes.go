package routes

import (
	"HappyDog/internal/api/handlers"
	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/likes"

	"github.com/go-chi/chi/v5"
)

// RegisterLikeRoutes registers like toggles for posts and comments.
func RegisterLikeRoutes(r chi.Router, service likes.Service, auth *middleware.AuthMiddleware) {
	handler := handlers.NewLikeHandler(service)

	r.With(auth.RequireAuth).Post("/api/posts/{post_id}/like", handler.HandleTogglePostLike)
	r.With(auth.RequireAuth).Post("/api/comments/{comment_id}/like", handler.HandleToggleCommentLike)
}
