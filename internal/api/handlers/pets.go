package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/pets"
)

// PetHandler covers registration, profile reads and care records.
type PetHandler struct {
	service pets.Service
}

// NewPetHandler creates a pet handler.
func NewPetHandler(service pets.Service) *PetHandler {
	return &PetHandler{service: service}
}

// HandleRegister registers a pet and seeds its care settings.
// POST /api/pets
func (h *PetHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req pets.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}
	req.OwnerUserID = middleware.GetUserID(r)

	pet, settings, err := h.service.Register(r.Context(), req)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{
		"pet":           pet,
		"care_settings": settings,
	})
}

// HandleGet returns the pet with its care settings, owner only.
// GET /api/pets/{pet_id}
func (h *PetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	pet, settings, err := h.service.Get(r.Context(), chi.URLParam(r, "pet_id"), middleware.GetUserID(r))
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"pet":           pet,
		"care_settings": settings,
	})
}

// HandleCreateRecord logs one care event.
// POST /api/pets/{pet_id}/care-records
func (h *PetHandler) HandleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req pets.CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}
	req.PetID = chi.URLParam(r, "pet_id")
	req.CallerID = middleware.GetUserID(r)

	record, err := h.service.CreateRecord(r.Context(), req)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, record)
}

// HandleListRecords returns one day's care records.
// GET /api/pets/{pet_id}/care-records?date=YYYY-MM-DD
func (h *PetHandler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		WriteError(w, http.StatusBadRequest, CodeValidation, "date query parameter is required")
		return
	}

	records, err := h.service.ListRecords(r.Context(), chi.URLParam(r, "pet_id"), middleware.GetUserID(r), date)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"records": records})
}
