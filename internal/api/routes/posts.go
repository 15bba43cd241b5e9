package routes

import (
	"HappyDog/internal/api/handlers"
	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers the feed endpoints. Reads are public so
// signed-out clients can browse; the feed uses OptionalAuth to fill in
// per-caller like flags when a token is present.
func RegisterPostRoutes(r chi.Router, service posts.Service, auth *middleware.AuthMiddleware) {
	handler := handlers.NewPostHandler(service)

	r.With(auth.OptionalAuth).Get("/api/posts", handler.HandleFeed)
	r.With(auth.OptionalAuth).Get("/api/posts/{post_id}", handler.HandleGet)

	r.With(auth.RequireAuth).Post("/api/posts", handler.HandleCreate)
	r.With(auth.RequireAuth).Patch("/api/posts/{post_id}", handler.HandleUpdate)
	r.With(auth.RequireAuth).Delete("/api/posts/{post_id}", handler.HandleDelete)
}
