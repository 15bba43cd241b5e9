// Package likes implements toggle-style likes on posts and comments.
// A like is keyed by a deterministic id composed from subject type,
// liking user, and subject id, so toggling is idempotent per user.
package likes

import "time"

// Subject types a like can attach to.
const (
	SubjectPost    = "post"
	SubjectComment = "comment"
)

// Like is one user's like on one subject.
type Like struct {
	LikeID      string    `json:"like_id"`
	SubjectType string    `json:"subject_type"`
	SubjectID   string    `json:"subject_id"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SubjectSnapshot carries what the toggle transaction learned about the
// liked subject. The service uses it to notify the author after commit.
type SubjectSnapshot struct {
	AuthorID  string
	Summary   string
	LikeCount int
}

// ToggleResult is returned to the API layer.
type ToggleResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
