package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"HappyDog/internal/core/posts"
)

// PostRepository implements posts.Repository.
type PostRepository struct {
	store *Store
}

// NewPostRepository creates a post repository.
func NewPostRepository(store *Store) *PostRepository {
	return &PostRepository{store: store}
}

func (r *PostRepository) Create(ctx context.Context, p *posts.Post) error {
	return r.store.Set(ctx, Posts, p.PostID, p)
}

func (r *PostRepository) GetByID(ctx context.Context, postID string) (*posts.Post, error) {
	var p posts.Post
	if err := r.store.Get(ctx, Posts, postID, &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, posts.ErrNotFound
		}
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context, limit int, cursor string) ([]*posts.Post, string, error) {
	docs, next, err := r.store.QueryDocs(ctx, Posts, Query{
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
		Cursor:  cursor,
	})
	if err != nil {
		return nil, "", fmt.Errorf("querying posts: %w", err)
	}

	out := make([]*posts.Post, 0, len(docs))
	for _, raw := range docs {
		var p posts.Post
		if err := unmarshalDoc(raw, &p); err != nil {
			return nil, "", err
		}
		out = append(out, &p)
	}
	return out, next, nil
}

func (r *PostRepository) UpdateText(ctx context.Context, postID, text string, updatedAt time.Time) (*posts.Post, error) {
	err := r.store.Update(ctx, Posts, postID, map[string]any{
		"text":       text,
		"updated_at": updatedAt,
	})
	if errors.Is(err, ErrNotFound) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating post text: %w", err)
	}
	return r.GetByID(ctx, postID)
}

func (r *PostRepository) Delete(ctx context.Context, postID string) error {
	return r.store.Delete(ctx, Posts, postID)
}
