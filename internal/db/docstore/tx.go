package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
)

// Transaction retry policy. Serialization failures are expected under
// contention; the budget bounds tail latency before ErrConflict surfaces.
const (
	txMaxAttempts = 5
	txBackoffBase = 20 * time.Millisecond
	txBackoffCap  = 250 * time.Millisecond
)

// Tx is a transaction handle. All cross-entity mutations (comment+counter,
// like+counter, pet+settings) must go through Store.Transaction.
type Tx struct {
	tx *sql.Tx
}

// Transaction runs fn inside a serializable transaction, retrying on
// optimistic-concurrency conflicts up to txMaxAttempts with bounded
// exponential backoff. Domain errors returned by fn abort without retry.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = txBackoffBase
	bo.MaxInterval = txBackoffCap
	bo.Reset()

	return s.retryTx(ctx, bo.NextBackOff, func() error {
		return s.runOnce(ctx, fn)
	})
}

// retryTx drives the retry loop. The last failed attempt surfaces
// ErrConflict immediately; sleeping after it would only add dead
// latency.
func (s *Store) retryTx(ctx context.Context, nextDelay func() time.Duration, run func() error) error {
	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err := run()
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
		s.logger.Warn("transaction conflict, retrying",
			"attempt", attempt,
			"error", err)
		if attempt == txMaxAttempts {
			break
		}

		select {
		case <-time.After(nextDelay()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", ErrConflict, lastErr)
}

func (s *Store) runOnce(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			s.logger.Warn("transaction rollback failed", "error", rbErr)
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isSerializationFailure reports whether err is a retryable optimistic
// conflict: SQLSTATE 40001 (serialization_failure) or 40P01 (deadlock).
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// Get reads one document inside the transaction.
func (t *Tx) Get(ctx context.Context, collection, id string, out any) error {
	return get(ctx, t.tx, collection, id, out)
}

// Set writes the full document inside the transaction.
func (t *Tx) Set(ctx context.Context, collection, id string, doc any) error {
	return set(ctx, t.tx, collection, id, doc)
}

// Update applies a shallow field patch inside the transaction.
func (t *Tx) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	return update(ctx, t.tx, collection, id, patch)
}

// Delete removes a document inside the transaction.
func (t *Tx) Delete(ctx context.Context, collection, id string) error {
	return del(ctx, t.tx, collection, id)
}

// Exists checks document presence inside the transaction.
func (t *Tx) Exists(ctx context.Context, collection, id string) (bool, error) {
	return exists(ctx, t.tx, collection, id)
}

// Increment atomically adds delta to a numeric top-level field, clamping the
// result at zero. Counters in this system are non-negative by invariant.
func (t *Tx) Increment(ctx context.Context, collection, id, field string, delta int) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE documents
		SET data = jsonb_set(
			data,
			ARRAY[$3],
			to_jsonb(GREATEST(0, COALESCE((data ->> $3)::bigint, 0) + $4))
		),
		updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`, collection, id, field, delta)
	if err != nil {
		return fmt.Errorf("failed to increment %s/%s.%s: %w", collection, id, field, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to increment %s/%s.%s: %w", collection, id, field, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
