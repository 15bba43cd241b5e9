package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/posts"
)

// PostHandler covers the feed surface.
type PostHandler struct {
	service posts.Service
}

// NewPostHandler creates a post handler.
func NewPostHandler(service posts.Service) *PostHandler {
	return &PostHandler{service: service}
}

// HandleCreate publishes a post.
// POST /api/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req posts.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}

	post, err := h.service.Create(r.Context(), middleware.GetUserID(r), &req)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, post)
}

// HandleFeed returns the global feed page.
// GET /api/posts?limit=&cursor=
func (h *PostHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")

	feed, next, err := h.service.Feed(r.Context(), middleware.GetUserID(r), limit, cursor)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"posts":       feed,
		"next_cursor": next,
	})
}

// HandleGet returns one post.
// GET /api/posts/{post_id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "post_id"), middleware.GetUserID(r))
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

type updatePostRequest struct {
	Text string `json:"text"`
}

// HandleUpdate changes the post text, author only.
// PATCH /api/posts/{post_id}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}

	post, err := h.service.UpdateText(r.Context(), chi.URLParam(r, "post_id"), middleware.GetUserID(r), req.Text)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post, author only.
// DELETE /api/posts/{post_id}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "post_id"), middleware.GetUserID(r)); err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
