package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/cartoons"
	"HappyDog/internal/metrics"
)

// CartoonHandler covers the async job surface.
type CartoonHandler struct {
	service cartoons.Service
}

// NewCartoonHandler creates a cartoon job handler.
func NewCartoonHandler(service cartoons.Service) *CartoonHandler {
	return &CartoonHandler{service: service}
}

// HandleSubmit accepts a generation job and returns 202 with its id.
// POST /api/cartoon-jobs
func (h *CartoonHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req cartoons.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}

	job, err := h.service.Submit(r.Context(), middleware.GetUserID(r), &req)
	if err != nil {
		if errors.Is(err, cartoons.ErrOverloaded) {
			metrics.CartoonJobsRejected.Inc()
		}
		MapError(w, err)
		return
	}
	metrics.CartoonJobsSubmitted.Inc()

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": job.Status,
	})
}

// HandleGet polls a job, owner only. Foreign jobs read as missing.
// GET /api/cartoon-jobs/{job_id}
func (h *CartoonHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Get(r.Context(), chi.URLParam(r, "job_id"), middleware.GetUserID(r))
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// HandleCancel requests cooperative cancellation.
// DELETE /api/cartoon-jobs/{job_id}
func (h *CartoonHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Cancel(r.Context(), chi.URLParam(r, "job_id"), middleware.GetUserID(r))
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"job_id": job.JobID,
		"status": job.Status,
	})
}
