// Package docstore wraps Postgres with document-store semantics: jsonb
// documents addressed by (collection, id), serializable multi-document
// transactions with retry, clamped atomic counters, and cursor pagination.
// Domain repositories in this package build typed access on top of it.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Collection names. One table holds them all; these are partition keys.
const (
	Users         = "users"
	Pets          = "pets"
	PetSettings   = "pet_care_settings"
	CareRecords   = "care_records"
	Posts         = "posts"
	Comments      = "comments"
	Likes         = "likes"
	Notifications = "notifications"
	CartoonJobs   = "cartoon_jobs"
	Breeds        = "breeds"
	RevokedTokens = "revoked_tokens"
)

// Store is the document-store adapter. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Store on an open database handle.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Get reads one document into out. Per-document reads are strongly
// consistent (single-row primary-key lookup).
func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	return get(ctx, s.db, collection, id, out)
}

// Set writes the full document, creating or replacing it.
func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	return set(ctx, s.db, collection, id, doc)
}

// Update applies a shallow field patch to an existing document.
func (s *Store) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	return update(ctx, s.db, collection, id, patch)
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return del(ctx, s.db, collection, id)
}

// runner abstracts *sql.DB and *sql.Tx so the same document operations serve
// both paths.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func get(ctx context.Context, r runner, collection, id string, out any) error {
	var raw []byte
	err := r.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return nil
}

func set(ctx context.Context, r runner, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}
	_, err = r.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

func update(ctx context.Context, r runner, collection, id string, patch map[string]any) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode patch for %s/%s: %w", collection, id, err)
	}
	res, err := r.ExecContext(ctx, `
		UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func del(ctx context.Context, r runner, collection, id string) error {
	if _, err := r.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func exists(ctx context.Context, r runner, collection, id string) (bool, error) {
	var found bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE collection = $1 AND id = $2)`,
		collection, id,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check %s/%s: %w", collection, id, err)
	}
	return found, nil
}
