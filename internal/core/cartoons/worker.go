package cartoons

import (
	"context"
	"fmt"
	"log/slog"

	"HappyDog/internal/core/notifications"
	"HappyDog/internal/metrics"
)

// Pipeline runs one job end to end: analyze the source image, compose
// the prompt, call the generation API, publish the post. Cancellation is
// checked before analysis and again between analysis and generation; a
// job past the second checkpoint runs to completion.
type Pipeline struct {
	repo      Repository
	analyzer  Analyzer
	generator Generator
	poster    PostCreator
	notifier  notifications.Notifier
	logger    *slog.Logger
}

// NewPipeline wires the worker-side collaborators.
func NewPipeline(repo Repository, analyzer Analyzer, generator Generator, poster PostCreator, notifier notifications.Notifier, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		repo:      repo,
		analyzer:  analyzer,
		generator: generator,
		poster:    poster,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run executes the pipeline. ctx is the pool's lifecycle context, not
// the submitting request's.
func (p *Pipeline) Run(ctx context.Context, job *Job) {
	if p.canceled(ctx, job) {
		return
	}

	analysis, err := p.analyzer.Describe(ctx, job.OriginalImageURL)
	if err != nil {
		p.fail(ctx, job, fmt.Errorf("analyzing image: %w", err))
		return
	}
	prompt := BuildPrompt(analysis, job.UserText)

	if p.canceled(ctx, job) {
		return
	}

	resultURL, err := p.generator.Generate(ctx, prompt, job.OriginalImageURL)
	if err != nil {
		p.fail(ctx, job, fmt.Errorf("generating cartoon: %w", err))
		return
	}

	if _, err := p.poster.CreateFromGenerated(ctx, job.UserID, p.postText(job), []string{resultURL}); err != nil {
		p.fail(ctx, job, fmt.Errorf("publishing cartoon post: %w", err))
		return
	}

	if err := p.repo.Complete(ctx, job.JobID, resultURL); err != nil {
		p.logger.Error("job completion write failed", "job_id", job.JobID, "error", err)
		return
	}
	metrics.CartoonJobsFinished.WithLabelValues(StatusCompleted).Inc()
	p.notifier.Notify(ctx, job.UserID, notifications.SystemSenderID, notifications.TypeCartoonSuccess, job.JobID, &resultURL)
	p.logger.Info("cartoon job completed", "job_id", job.JobID, "user", job.UserID)
}

// canceled polls the job status and, when a cancellation request is
// pending, writes the terminal FAILED state. Returns true when the
// pipeline must stop.
func (p *Pipeline) canceled(ctx context.Context, job *Job) bool {
	status, err := p.repo.Status(ctx, job.JobID)
	if err != nil {
		p.logger.Error("job status check failed", "job_id", job.JobID, "error", err)
		return true
	}
	if Terminal(status) {
		return true
	}
	if status != StatusCanceling {
		return false
	}

	if err := p.repo.Fail(ctx, job.JobID, CancelMessage); err != nil {
		p.logger.Error("cancel transition failed", "job_id", job.JobID, "error", err)
		return true
	}
	metrics.CartoonJobsFinished.WithLabelValues(StatusFailed).Inc()
	msg := CancelMessage
	p.notifier.Notify(ctx, job.UserID, notifications.SystemSenderID, notifications.TypeCartoonFailed, job.JobID, &msg)
	p.logger.Info("cartoon job canceled", "job_id", job.JobID, "user", job.UserID)
	return true
}

func (p *Pipeline) fail(ctx context.Context, job *Job, cause error) {
	msg := truncateError(cause)
	if err := p.repo.Fail(ctx, job.JobID, msg); err != nil {
		p.logger.Error("job failure write failed", "job_id", job.JobID, "error", err)
		return
	}
	metrics.CartoonJobsFinished.WithLabelValues(StatusFailed).Inc()
	p.notifier.Notify(ctx, job.UserID, notifications.SystemSenderID, notifications.TypeCartoonFailed, job.JobID, &msg)
	p.logger.Warn("cartoon job failed", "job_id", job.JobID, "user", job.UserID, "error", cause)
}

func (p *Pipeline) postText(job *Job) string {
	if job.UserText != "" {
		return job.UserText
	}
	return "AI-generated 4-panel cartoon"
}
