package docstore

import (
	"context"
	"errors"
	"fmt"

	"HappyDog/internal/core/comments"
	"HappyDog/internal/core/posts"
)

// CommentRepository implements comments.Repository. Creation and
// deletion adjust the parent post's comment_count in the same
// transaction as the comment write.
type CommentRepository struct {
	store *Store
}

// NewCommentRepository creates a comment repository.
func NewCommentRepository(store *Store) *CommentRepository {
	return &CommentRepository{store: store}
}

func (r *CommentRepository) CreateWithCount(ctx context.Context, c *comments.Comment) (*comments.PostSnapshot, error) {
	var snap comments.PostSnapshot
	err := r.store.Transaction(ctx, func(tx *Tx) error {
		var post posts.Post
		if err := tx.Get(ctx, Posts, c.PostID, &post); err != nil {
			if errors.Is(err, ErrNotFound) {
				return comments.ErrPostNotFound
			}
			return err
		}
		if err := tx.Set(ctx, Comments, c.CommentID, c); err != nil {
			return err
		}
		if err := tx.Increment(ctx, Posts, c.PostID, "comment_count", 1); err != nil {
			return err
		}
		snap = comments.PostSnapshot{
			AuthorID:     post.Author.UserID,
			CommentCount: post.CommentCount + 1,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *CommentRepository) DeleteWithCount(ctx context.Context, commentID, callerID string) error {
	return r.store.Transaction(ctx, func(tx *Tx) error {
		var c comments.Comment
		if err := tx.Get(ctx, Comments, commentID, &c); err != nil {
			if errors.Is(err, ErrNotFound) {
				return comments.ErrNotFound
			}
			return err
		}
		if c.Author.UserID != callerID {
			return comments.ErrNotAuthor
		}
		if err := tx.Delete(ctx, Comments, commentID); err != nil {
			return err
		}
		return tx.Increment(ctx, Posts, c.PostID, "comment_count", -1)
	})
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string, limit int, cursor string) ([]*comments.Comment, string, error) {
	docs, next, err := r.store.QueryDocs(ctx, Comments, Query{
		Filters: []Filter{{Path: "post_id", Value: postID}},
		OrderBy: "created_at",
		Limit:   limit,
		Cursor:  cursor,
	})
	if err != nil {
		return nil, "", fmt.Errorf("querying comments: %w", err)
	}

	out := make([]*comments.Comment, 0, len(docs))
	for _, raw := range docs {
		var c comments.Comment
		if err := unmarshalDoc(raw, &c); err != nil {
			return nil, "", err
		}
		out = append(out, &c)
	}
	return out, next, nil
}
