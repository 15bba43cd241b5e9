package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/comments"
)

// CommentHandler covers comments on posts.
type CommentHandler struct {
	service comments.Service
}

// NewCommentHandler creates a comment handler.
func NewCommentHandler(service comments.Service) *CommentHandler {
	return &CommentHandler{service: service}
}

// HandleCreate adds a comment to a post.
// POST /api/posts/{post_id}/comments
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req comments.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}

	comment, err := h.service.Create(r.Context(), chi.URLParam(r, "post_id"), middleware.GetUserID(r), &req)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, comment)
}

// HandleList returns a post's comments, oldest first.
// GET /api/posts/{post_id}/comments?limit=&cursor=
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cursor := r.URL.Query().Get("cursor")

	list, next, err := h.service.ListByPost(r.Context(), chi.URLParam(r, "post_id"), limit, cursor)
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"comments":    list,
		"next_cursor": next,
	})
}

// HandleDelete removes the caller's comment.
// DELETE /api/comments/{comment_id}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "comment_id"), middleware.GetUserID(r)); err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
