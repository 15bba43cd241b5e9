package users

import "context"

// Repository defines the data access interface for users.
type Repository interface {
	// GetByID retrieves a user by id. Returns ErrNotFound if missing.
	GetByID(ctx context.Context, userID string) (*User, error)

	// GetByNickname resolves a unique nickname to a user. Returns
	// ErrNotFound for unknown nicknames.
	GetByNickname(ctx context.Context, nickname string) (*User, error)
}
