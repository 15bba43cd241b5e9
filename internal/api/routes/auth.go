package routes

import (
	"HappyDog/internal/api/handlers"

	"github.com/go-chi/chi/v5"
)

// RegisterAuthRoutes registers logout. The tokens to revoke travel in
// the body, so no auth middleware guards the route.
func RegisterAuthRoutes(r chi.Router, secret string, tokens handlers.TokenRevoker) {
	handler := handlers.NewAuthHandler(secret, tokens)

	r.Post("/api/auth/logout", handler.HandleLogout)
}
