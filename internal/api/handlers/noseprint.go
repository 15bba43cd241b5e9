package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/noseprint"
	"HappyDog/internal/metrics"
)

// NosePrintHandler runs biometric admissions. A nil engine means the
// index file was unreadable at startup; admissions are refused while
// the rest of the service keeps running.
type NosePrintHandler struct {
	engine *noseprint.Engine
}

// NewNosePrintHandler creates a nose-print handler.
func NewNosePrintHandler(engine *noseprint.Engine) *NosePrintHandler {
	return &NosePrintHandler{engine: engine}
}

type admitRequest struct {
	StagingKey string `json:"staging_key"`
}

// HandleAdmit verifies a staged nose-print image against the index.
// POST /api/pets/{pet_id}/nose-print
//
// DUPLICATE, INVALID_IMAGE and ALREADY_VERIFIED are conflict outcomes,
// not validation failures: the request was well-formed, the biometric
// was refused.
func (h *NosePrintHandler) HandleAdmit(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "biometric admission is temporarily unavailable")
		return
	}

	var req admitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}
	if req.StagingKey == "" {
		WriteError(w, http.StatusBadRequest, CodeValidation, "staging_key is required")
		return
	}

	result, err := h.engine.Admit(r.Context(), chi.URLParam(r, "pet_id"), middleware.GetUserID(r), req.StagingKey)
	if err != nil {
		MapError(w, err)
		return
	}
	metrics.AdmissionOutcomes.WithLabelValues(result.Status).Inc()

	switch result.Status {
	case noseprint.StatusSuccess:
		WriteJSON(w, http.StatusOK, result)
	case noseprint.StatusDuplicate, noseprint.StatusAlreadyVerified:
		WriteJSON(w, http.StatusConflict, result)
	case noseprint.StatusInvalidImage:
		WriteJSON(w, http.StatusBadRequest, result)
	default:
		WriteJSON(w, http.StatusInternalServerError, result)
	}
}
