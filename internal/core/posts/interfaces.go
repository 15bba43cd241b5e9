package posts

import (
	"context"
	"time"
)

// Service defines post operations.
type Service interface {
	// Create publishes a post authored by userID, tagged with their pet.
	Create(ctx context.Context, userID string, req *CreateRequest) (*Post, error)

	// CreateFromGenerated publishes a post on behalf of userID with
	// already-public image URLs. Used by the cartoon pipeline.
	CreateFromGenerated(ctx context.Context, userID, text string, imageURLs []string) (*Post, error)

	// Get returns one post decorated with the viewer's like state.
	Get(ctx context.Context, postID, viewerID string) (*FeedPost, error)

	// Feed returns the global feed, newest first, decorated with the
	// viewer's like state.
	Feed(ctx context.Context, viewerID string, limit int, cursor string) ([]*FeedPost, string, error)

	// UpdateText changes the post body. Author only.
	UpdateText(ctx context.Context, postID, callerID, text string) (*Post, error)

	// Delete removes the post and best-effort deletes its images.
	// Author only.
	Delete(ctx context.Context, postID, callerID string) error
}

// Repository defines the data access interface for posts.
type Repository interface {
	Create(ctx context.Context, p *Post) error
	GetByID(ctx context.Context, postID string) (*Post, error)
	List(ctx context.Context, limit int, cursor string) ([]*Post, string, error)
	UpdateText(ctx context.Context, postID, text string, updatedAt time.Time) (*Post, error)
	Delete(ctx context.Context, postID string) error
}

// MediaStore is the slice of blob storage posts need: promoting staged
// uploads to public URLs and deleting them when the post goes away.
// Delete takes an object key; KeyFromURL maps a public URL back to its
// key and reports false for URLs hosted elsewhere.
type MediaStore interface {
	MakePublic(ctx context.Context, fileID string) (string, error)
	KeyFromURL(url string) (string, bool)
	Delete(ctx context.Context, fileID string) error
}

// LikeChecker decorates feed pages with the viewer's like state.
type LikeChecker interface {
	LikedSubjects(ctx context.Context, subjectType, userID string, subjectIDs []string) (map[string]bool, error)
}
