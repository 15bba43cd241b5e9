package likes

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"HappyDog/internal/clock"
	"HappyDog/internal/core/notifications"
)

// inChunkSize mirrors docstore.InChunkSize, the store's maximum number of
// ids per "in" filter. It is duplicated here rather than imported because
// docstore depends on this package.
const inChunkSize = 30

type likeService struct {
	repo     Repository
	notifier notifications.Notifier
	clock    clock.Clock
	logger   *slog.Logger
}

// NewService creates a like service.
func NewService(repo Repository, notifier notifications.Notifier, clk clock.Clock, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &likeService{
		repo:     repo,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

func (s *likeService) Toggle(ctx context.Context, subjectType, subjectID, userID string) (*ToggleResult, error) {
	if subjectType != SubjectPost && subjectType != SubjectComment {
		return nil, NewValidationError("subject_type", "must be post or comment")
	}
	if subjectID == "" {
		return nil, NewValidationError("subject_id", "is required")
	}

	liked, subject, err := s.repo.Toggle(ctx, subjectType, userID, subjectID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("toggling like: %w", err)
	}

	// Notification fires only on the like edge, after the transaction
	// committed, and never on unlike.
	if liked {
		notifType := notifications.TypePostLike
		if subjectType == SubjectComment {
			notifType = notifications.TypeCommentLike
		}
		summary := subject.Summary
		s.notifier.Notify(ctx, subject.AuthorID, userID, notifType, subjectID, &summary)
	}

	return &ToggleResult{Liked: liked, LikeCount: subject.LikeCount}, nil
}

// LikedSubjects partitions the subject ids into in-query-sized chunks and
// checks each chunk concurrently by deterministic like id.
func (s *likeService) LikedSubjects(ctx context.Context, subjectType, userID string, subjectIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(subjectIDs))
	if len(subjectIDs) == 0 {
		return result, nil
	}

	likeIDs := make([]string, len(subjectIDs))
	for i, id := range subjectIDs {
		likeIDs[i] = clock.ComposeLikeID(subjectType, userID, id)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(likeIDs); start += inChunkSize {
		end := start + inChunkSize
		if end > len(likeIDs) {
			end = len(likeIDs)
		}
		chunk := likeIDs[start:end]
		g.Go(func() error {
			found, err := s.repo.ExistingLikeIDs(gctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, likeID := range found {
				result[subjectIDFromLikeID(likeID)] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("checking liked subjects: %w", err)
	}

	for _, id := range subjectIDs {
		if _, ok := result[id]; !ok {
			result[id] = false
		}
	}
	return result, nil
}

// subjectIDFromLikeID strips the "{subject_type}_{user_id}_" prefix. Both
// prefix parts are fixed-position, so the subject id is everything after
// the second underscore.
func subjectIDFromLikeID(likeID string) string {
	seen := 0
	for i := 0; i < len(likeID); i++ {
		if likeID[i] == '_' {
			seen++
			if seen == 2 {
				return likeID[i+1:]
			}
		}
	}
	return likeID
}
