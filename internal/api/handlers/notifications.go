package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/notifications"
)

// NotificationHandler covers the notification feed.
type NotificationHandler struct {
	service notifications.Service
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(service notifications.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// HandleList returns the caller's notifications, newest first.
// GET /api/notifications?limit=&cursor=
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")

	list, next, err := h.service.List(r.Context(), middleware.GetUserID(r), limit, cursor)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"notifications": list,
		"next_cursor":   next,
	})
}

// HandleMarkRead flags one notification as read.
// POST /api/notifications/{notification_id}/read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	err := h.service.MarkRead(r.Context(), chi.URLParam(r, "notification_id"), middleware.GetUserID(r))
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"read": true})
}
