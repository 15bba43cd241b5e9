package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"HappyDog/internal/clock"
)

// revokedToken records a revoked JWT id until its natural expiry.
type revokedToken struct {
	JTI       string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
	RevokedAt time.Time `json:"revoked_at"`
}

// TokenRepository tracks revoked token ids for the auth middleware.
type TokenRepository struct {
	store *Store
	clock clock.Clock
}

// NewTokenRepository creates a token repository.
func NewTokenRepository(store *Store, clk clock.Clock) *TokenRepository {
	return &TokenRepository{store: store, clock: clk}
}

// Revoke records the token id. Expired entries for other tokens are
// swept opportunistically on the same write path.
func (r *TokenRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	now := r.clock.Now()
	if err := r.store.Set(ctx, RevokedTokens, jti, revokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
		RevokedAt: now,
	}); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	r.sweep(ctx, now)
	return nil
}

// IsRevoked reports whether the token id was revoked and has not yet
// expired.
func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var rec revokedToken
	err := r.store.Get(ctx, RevokedTokens, jti, &rec)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return rec.ExpiresAt.After(r.clock.Now()), nil
}

// sweep drops revocation records whose tokens expired anyway. Best
// effort; the next Revoke retries.
func (r *TokenRepository) sweep(ctx context.Context, now time.Time) {
	docs, _, err := r.store.QueryDocs(ctx, RevokedTokens, Query{
		OrderBy: "expires_at",
		Limit:   50,
	})
	if err != nil {
		r.store.logger.Warn("revoked token sweep failed", "error", err)
		return
	}
	for _, raw := range docs {
		var rec revokedToken
		if err := unmarshalDoc(raw, &rec); err != nil {
			continue
		}
		if rec.ExpiresAt.Before(now) {
			if err := r.store.Delete(ctx, RevokedTokens, rec.JTI); err != nil {
				r.store.logger.Warn("revoked token cleanup failed", "jti", rec.JTI, "error", err)
			}
		}
	}
}
