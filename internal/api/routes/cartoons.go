package routes

import (
	"HappyDog/internal/api/handlers"
	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/cartoons"

	"github.com/go-chi/chi/v5"
)

// RegisterCartoonRoutes registers the async cartoon job endpoints. Jobs
// are private to their owner, so everything requires auth.
func RegisterCartoonRoutes(r chi.Router, service cartoons.Service, auth *middleware.AuthMiddleware) {
	handler := handlers.NewCartoonHandler(service)

	r.With(auth.RequireAuth).Post("/api/cartoon-jobs", handler.HandleSubmit)
	r.With(auth.RequireAuth).Get("/api/cartoon-jobs/{job_id}", handler.HandleGet)
	r.With(auth.RequireAuth).Delete("/api/cartoon-jobs/{job_id}", handler.HandleCancel)
}
