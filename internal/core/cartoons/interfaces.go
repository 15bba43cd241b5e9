package cartoons

import (
	"context"

	"HappyDog/internal/core/posts"
)

// Service defines the job orchestrator surface.
type Service interface {
	// Submit writes the job in PROCESSING, hands it to the worker pool,
	// and returns the tracking id. Returns ErrOverloaded when the queue
	// stays full past the submission timeout.
	Submit(ctx context.Context, userID string, req *SubmitRequest) (*Job, error)

	// Get returns the job iff the caller owns it, else ErrNotFound.
	Get(ctx context.Context, jobID, callerID string) (*Job, error)

	// Cancel requests cooperative cancellation. Only PROCESSING jobs can
	// transition to CANCELING; anything else returns ErrInvalidState.
	Cancel(ctx context.Context, jobID, callerID string) (*Job, error)
}

// Repository defines the data access interface for jobs. Transition
// methods enforce the state machine inside a transaction: a transition
// from a terminal state is rejected without modifying the document.
type Repository interface {
	Create(ctx context.Context, job *Job) error

	// GetByOwner returns ErrNotFound for both missing jobs and jobs
	// owned by someone else.
	GetByOwner(ctx context.Context, jobID, userID string) (*Job, error)

	// RequestCancel transitions PROCESSING to CANCELING, owner-scoped.
	RequestCancel(ctx context.Context, jobID, userID string) (*Job, error)

	// Status reads the current status without ownership scoping. Workers
	// use it at cancellation checkpoints.
	Status(ctx context.Context, jobID string) (string, error)

	// Complete transitions a non-terminal job to COMPLETED.
	Complete(ctx context.Context, jobID, resultImageURL string) error

	// Fail transitions a non-terminal job to FAILED.
	Fail(ctx context.Context, jobID, errorMessage string) error
}

// Analyzer produces a textual description of the source image.
type Analyzer interface {
	Describe(ctx context.Context, imageURL string) (string, error)
}

// Generator calls the third-party image-generation API and returns the
// URL of the generated image.
type Generator interface {
	Generate(ctx context.Context, prompt, sourceImageURL string) (string, error)
}

// PostCreator publishes the generated cartoon to the feed on the user's
// behalf. Satisfied by the posts service.
type PostCreator interface {
	CreateFromGenerated(ctx context.Context, userID, text string, imageURLs []string) (*posts.Post, error)
}
