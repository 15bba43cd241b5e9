// Package comments implements post comments with denormalized counts and
// @nickname mention fan-out.
package comments

import (
	"time"

	"HappyDog/internal/core/users"
)

// Comment is one comment on a post.
type Comment struct {
	CommentID string         `json:"comment_id"`
	PostID    string         `json:"post_id"`
	Author    users.Snapshot `json:"author"`
	Text      string         `json:"text"`
	LikeCount int            `json:"like_count"`
	CreatedAt time.Time      `json:"created_at"`
}

// PostSnapshot carries what the create transaction learned about the
// commented post. The service uses it to notify the post author after
// commit.
type PostSnapshot struct {
	AuthorID     string
	CommentCount int
}

// CreateRequest is the payload for creating a comment.
type CreateRequest struct {
	Text string `json:"text"`
}

// MaxTextLength bounds comment body text.
const MaxTextLength = 500
