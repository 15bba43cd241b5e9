package routes

import (
	"HappyDog/internal/api/handlers"
	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/noseprint"
	"HappyDog/internal/core/pets"

	"github.com/go-chi/chi/v5"
)

// RegisterPetRoutes registers pet registration, profile and care record
// endpoints. Every operation is owner-scoped, so all require auth.
func RegisterPetRoutes(r chi.Router, service pets.Service, engine *noseprint.Engine, auth *middleware.AuthMiddleware) {
	petHandler := handlers.NewPetHandler(service)
	noseHandler := handlers.NewNosePrintHandler(engine)

	r.With(auth.RequireAuth).Post("/api/pets", petHandler.HandleRegister)
	r.With(auth.RequireAuth).Get("/api/pets/{pet_id}", petHandler.HandleGet)

	r.With(auth.RequireAuth).Post("/api/pets/{pet_id}/care-records", petHandler.HandleCreateRecord)
	r.With(auth.RequireAuth).Get("/api/pets/{pet_id}/care-records", petHandler.HandleListRecords)

	// Biometric admission against the nose-print index.
	r.With(auth.RequireAuth).Post("/api/pets/{pet_id}/nose-print", noseHandler.HandleAdmit)
}
