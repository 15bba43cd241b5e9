package docstore

import (
	"context"
	"errors"
	"fmt"

	"HappyDog/internal/clock"
	"HappyDog/internal/core/cartoons"
)

// JobRepository implements cartoons.Repository. Every transition runs
// in a transaction that re-reads the current status, so the state
// machine holds under concurrent cancel requests and worker writes.
type JobRepository struct {
	store *Store
	clock clock.Clock
}

// NewJobRepository creates a cartoon job repository.
func NewJobRepository(store *Store, clk clock.Clock) *JobRepository {
	return &JobRepository{store: store, clock: clk}
}

func (r *JobRepository) Create(ctx context.Context, job *cartoons.Job) error {
	return r.store.Set(ctx, CartoonJobs, job.JobID, job)
}

func (r *JobRepository) GetByOwner(ctx context.Context, jobID, userID string) (*cartoons.Job, error) {
	var job cartoons.Job
	if err := r.store.Get(ctx, CartoonJobs, jobID, &job); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, cartoons.ErrNotFound
		}
		return nil, fmt.Errorf("getting job: %w", err)
	}
	// A foreign job looks exactly like a missing one.
	if job.UserID != userID {
		return nil, cartoons.ErrNotFound
	}
	return &job, nil
}

func (r *JobRepository) RequestCancel(ctx context.Context, jobID, userID string) (*cartoons.Job, error) {
	var job cartoons.Job
	err := r.store.Transaction(ctx, func(tx *Tx) error {
		if err := tx.Get(ctx, CartoonJobs, jobID, &job); err != nil {
			if errors.Is(err, ErrNotFound) {
				return cartoons.ErrNotFound
			}
			return err
		}
		if job.UserID != userID {
			return cartoons.ErrNotFound
		}
		if job.Status != cartoons.StatusProcessing {
			return cartoons.ErrInvalidState
		}

		job.Status = cartoons.StatusCanceling
		job.UpdatedAt = r.clock.Now()
		return tx.Update(ctx, CartoonJobs, jobID, map[string]any{
			"status":     cartoons.StatusCanceling,
			"updated_at": job.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Status(ctx context.Context, jobID string) (string, error) {
	var job cartoons.Job
	if err := r.store.Get(ctx, CartoonJobs, jobID, &job); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", cartoons.ErrNotFound
		}
		return "", fmt.Errorf("getting job status: %w", err)
	}
	return job.Status, nil
}

func (r *JobRepository) Complete(ctx context.Context, jobID, resultImageURL string) error {
	return r.transition(ctx, jobID, map[string]any{
		"status":           cartoons.StatusCompleted,
		"result_image_url": resultImageURL,
	})
}

func (r *JobRepository) Fail(ctx context.Context, jobID, errorMessage string) error {
	return r.transition(ctx, jobID, map[string]any{
		"status":        cartoons.StatusFailed,
		"error_message": errorMessage,
	})
}

// transition applies a terminal transition unless the job is already
// terminal. Terminal states absorb further transitions.
func (r *JobRepository) transition(ctx context.Context, jobID string, patch map[string]any) error {
	return r.store.Transaction(ctx, func(tx *Tx) error {
		var job cartoons.Job
		if err := tx.Get(ctx, CartoonJobs, jobID, &job); err != nil {
			if errors.Is(err, ErrNotFound) {
				return cartoons.ErrNotFound
			}
			return err
		}
		if cartoons.Terminal(job.Status) {
			return cartoons.ErrInvalidState
		}
		patch["updated_at"] = r.clock.Now()
		return tx.Update(ctx, CartoonJobs, jobID, patch)
	})
}
