package comments

import "context"

// Service defines comment operations.
type Service interface {
	// Create adds a comment to a post, bumps the post's comment count,
	// and fans out COMMENT and MENTION notifications after commit.
	Create(ctx context.Context, postID, userID string, req *CreateRequest) (*Comment, error)

	// Delete removes the caller's comment and decrements the post's
	// comment count.
	Delete(ctx context.Context, commentID, callerID string) error

	// ListByPost returns a post's comments, oldest first.
	ListByPost(ctx context.Context, postID string, limit int, cursor string) ([]*Comment, string, error)
}

// Repository defines the data access interface for comments.
type Repository interface {
	// CreateWithCount writes the comment and increments the post's
	// comment count in one transaction, returning a snapshot of the post.
	CreateWithCount(ctx context.Context, c *Comment) (*PostSnapshot, error)

	// DeleteWithCount removes the comment and decrements the post's
	// comment count in one transaction. It enforces that callerID wrote
	// the comment.
	DeleteWithCount(ctx context.Context, commentID, callerID string) error

	ListByPost(ctx context.Context, postID string, limit int, cursor string) ([]*Comment, string, error)
}
