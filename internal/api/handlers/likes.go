package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"HappyDog/internal/api/middleware"
	"HappyDog/internal/core/likes"
)

// LikeHandler toggles likes on posts and comments.
type LikeHandler struct {
	service likes.Service
}

// NewLikeHandler creates a like handler.
func NewLikeHandler(service likes.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// HandleTogglePostLike flips the caller's like on a post.
// POST /api/posts/{post_id}/like
func (h *LikeHandler) HandleTogglePostLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, likes.SubjectPost, chi.URLParam(r, "post_id"))
}

// HandleToggleCommentLike flips the caller's like on a comment.
// POST /api/comments/{comment_id}/like
func (h *LikeHandler) HandleToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, likes.SubjectComment, chi.URLParam(r, "comment_id"))
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, subjectType, subjectID string) {
	result, err := h.service.Toggle(r.Context(), subjectType, subjectID, middleware.GetUserID(r))
	if err != nil {
		MapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
