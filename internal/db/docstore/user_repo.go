package docstore

import (
	"context"
	"errors"
	"fmt"

	"HappyDog/internal/core/users"
)

// UserRepository implements users.Repository.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a user repository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*users.User, error) {
	var u users.User
	if err := r.store.Get(ctx, Users, userID, &u); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &u, nil
}

// GetByNickname resolves a mention target. Nicknames are unique by
// index, so the first match is the only match.
func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (*users.User, error) {
	docs, _, err := r.store.QueryDocs(ctx, Users, Query{
		Filters: []Filter{{Path: "nickname", Value: nickname}},
		OrderBy: "joined_at",
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("querying user by nickname: %w", err)
	}
	if len(docs) == 0 {
		return nil, users.ErrNotFound
	}
	var u users.User
	if err := unmarshalDoc(docs[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}
