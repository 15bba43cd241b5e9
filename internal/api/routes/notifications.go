package routes

import (
	"HappyDog/internal/api/handlers"
	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/notifications"

	"github.com/go-chi/chi/v5"
)

// RegisterNotificationRoutes registers the notification feed endpoints.
func RegisterNotificationRoutes(r chi.Router, service notifications.Service, auth *middleware.AuthMiddleware) {
	handler := handlers.NewNotificationHandler(service)

	r.With(auth.RequireAuth).Get("/api/notifications", handler.HandleList)
	r.With(auth.RequireAuth).Post("/api/notifications/{notification_id}/read", handler.HandleMarkRead)
}
