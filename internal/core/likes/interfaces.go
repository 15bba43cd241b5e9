package likes

import (
	"context"
	"time"
)

// Service defines like operations.
type Service interface {
	// Toggle flips the caller's like on the subject and returns the new
	// state along with the subject's updated like count.
	Toggle(ctx context.Context, subjectType, subjectID, userID string) (*ToggleResult, error)

	// LikedSubjects reports which of the given subject ids the user has
	// liked. Used to decorate feeds with is_liked flags.
	LikedSubjects(ctx context.Context, subjectType, userID string, subjectIDs []string) (map[string]bool, error)
}

// Repository defines the data access interface for likes.
type Repository interface {
	// Toggle atomically creates or removes the like document and adjusts
	// the subject's like count in the same transaction. It returns the
	// resulting liked state and a snapshot of the subject.
	Toggle(ctx context.Context, subjectType, userID, subjectID string, now time.Time) (bool, *SubjectSnapshot, error)

	// ExistingLikeIDs returns the subset of the given like ids that exist.
	// Callers chunk the input; a single call never exceeds the store's
	// in-query limit.
	ExistingLikeIDs(ctx context.Context, likeIDs []string) ([]string, error)
}
