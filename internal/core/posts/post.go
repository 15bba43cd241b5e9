// Package posts implements the feed: image posts authored by a user,
// tagged with their pet, with denormalized like and comment counts.
package posts

import (
	"time"

	"HappyDog/internal/core/users"
)

// PetInfo is the denormalized pet tag embedded in every post.
type PetInfo struct {
	PetID string `json:"pet_id"`
	Name  string `json:"name"`
	Breed string `json:"breed"`
}

// Post is one feed entry.
type Post struct {
	PostID       string         `json:"post_id"`
	Author       users.Snapshot `json:"author"`
	Pet          PetInfo        `json:"pet"`
	Text         string         `json:"text"`
	ImageURLs    []string       `json:"image_urls"`
	LikeCount    int            `json:"like_count"`
	CommentCount int            `json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// FeedPost is a post decorated with the caller's like state.
type FeedPost struct {
	*Post
	IsLiked bool `json:"is_liked"`
}

// CreateRequest is the payload for creating a post.
type CreateRequest struct {
	Text    string   `json:"text"`
	FileIDs []string `json:"file_ids"`
}

// UpdateRequest carries the only mutable post field.
type UpdateRequest struct {
	Text string `json:"text"`
}

// MaxTextLength bounds post body text.
const MaxTextLength = 2000
