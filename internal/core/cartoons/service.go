package cartoons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"HappyDog/internal/clock"
)

// Submitter abstracts the worker pool for the service. Satisfied by
// *Pool.
type Submitter interface {
	Submit(job *Job) error
}

type cartoonService struct {
	repo   Repository
	pool   Submitter
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates the job orchestrator service.
func NewService(repo Repository, pool Submitter, clk clock.Clock, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &cartoonService{
		repo:   repo,
		pool:   pool,
		clock:  clk,
		logger: logger,
	}
}

func (s *cartoonService) Submit(ctx context.Context, userID string, req *SubmitRequest) (*Job, error) {
	if strings.TrimSpace(req.OriginalImageURL) == "" {
		return nil, NewValidationError("original_image_url", "is required")
	}
	if len([]rune(req.UserText)) > MaxUserTextLength {
		return nil, NewValidationError("user_text", fmt.Sprintf("must be at most %d characters", MaxUserTextLength))
	}

	now := s.clock.Now()
	job := &Job{
		JobID:            clock.NewUUID(),
		UserID:           userID,
		Status:           StatusProcessing,
		OriginalImageURL: req.OriginalImageURL,
		UserText:         req.UserText,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// The job document is written before enqueueing so a poll right
	// after the 202 always finds it.
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	if err := s.pool.Submit(job); err != nil {
		if errors.Is(err, ErrOverloaded) {
			// The doc already exists; leave a terminal trace instead of
			// a PROCESSING job no worker will ever pick up.
			if ferr := s.repo.Fail(ctx, job.JobID, "worker queue overloaded"); ferr != nil {
				s.logger.Error("failed to mark overloaded job", "job_id", job.JobID, "error", ferr)
			}
		}
		return nil, err
	}

	s.logger.Info("cartoon job submitted", "job_id", job.JobID, "user", userID)
	return job, nil
}

func (s *cartoonService) Get(ctx context.Context, jobID, callerID string) (*Job, error) {
	return s.repo.GetByOwner(ctx, jobID, callerID)
}

func (s *cartoonService) Cancel(ctx context.Context, jobID, callerID string) (*Job, error) {
	job, err := s.repo.RequestCancel(ctx, jobID, callerID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("cartoon job cancel requested", "job_id", jobID, "user", callerID)
	return job, nil
}
