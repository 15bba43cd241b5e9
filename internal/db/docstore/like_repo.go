package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"HappyDog/internal/clock"
	"HappyDog/internal/core/comments"
	"HappyDog/internal/core/likes"
	"HappyDog/internal/core/posts"
)

// LikeRepository implements likes.Repository. The deterministic like id
// makes the toggle idempotent per (subject, user) pair.
type LikeRepository struct {
	store *Store
}

// NewLikeRepository creates a like repository.
func NewLikeRepository(store *Store) *LikeRepository {
	return &LikeRepository{store: store}
}

func (r *LikeRepository) Toggle(ctx context.Context, subjectType, userID, subjectID string, now time.Time) (bool, *likes.SubjectSnapshot, error) {
	likeID := clock.ComposeLikeID(subjectType, userID, subjectID)

	var liked bool
	var snap likes.SubjectSnapshot
	err := r.store.Transaction(ctx, func(tx *Tx) error {
		authorID, summary, likeCount, err := r.readSubject(ctx, tx, subjectType, subjectID)
		if err != nil {
			return err
		}

		collection := subjectCollection(subjectType)
		has, err := tx.Exists(ctx, Likes, likeID)
		if err != nil {
			return err
		}

		if has {
			if err := tx.Delete(ctx, Likes, likeID); err != nil {
				return err
			}
			if err := tx.Increment(ctx, collection, subjectID, "like_count", -1); err != nil {
				return err
			}
			liked = false
			if likeCount > 0 {
				likeCount--
			}
		} else {
			like := likes.Like{
				LikeID:      likeID,
				SubjectType: subjectType,
				SubjectID:   subjectID,
				UserID:      userID,
				CreatedAt:   now,
			}
			if err := tx.Set(ctx, Likes, likeID, like); err != nil {
				return err
			}
			if err := tx.Increment(ctx, collection, subjectID, "like_count", 1); err != nil {
				return err
			}
			liked = true
			likeCount++
		}

		snap = likes.SubjectSnapshot{
			AuthorID:  authorID,
			Summary:   summary,
			LikeCount: likeCount,
		}
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return liked, &snap, nil
}

func (r *LikeRepository) readSubject(ctx context.Context, tx *Tx, subjectType, subjectID string) (authorID, summary string, likeCount int, err error) {
	switch subjectType {
	case likes.SubjectPost:
		var p posts.Post
		if err := tx.Get(ctx, Posts, subjectID, &p); err != nil {
			if errors.Is(err, ErrNotFound) {
				return "", "", 0, likes.ErrSubjectNotFound
			}
			return "", "", 0, err
		}
		return p.Author.UserID, truncateRunes(p.Text, 100), p.LikeCount, nil
	case likes.SubjectComment:
		var c comments.Comment
		if err := tx.Get(ctx, Comments, subjectID, &c); err != nil {
			if errors.Is(err, ErrNotFound) {
				return "", "", 0, likes.ErrSubjectNotFound
			}
			return "", "", 0, err
		}
		return c.Author.UserID, truncateRunes(c.Text, 100), c.LikeCount, nil
	default:
		return "", "", 0, fmt.Errorf("unknown like subject type %q", subjectType)
	}
}

// ExistingLikeIDs returns the subset of ids that exist. The caller
// chunks to InChunkSize.
func (r *LikeRepository) ExistingLikeIDs(ctx context.Context, likeIDs []string) ([]string, error) {
	docs, _, err := r.store.QueryDocs(ctx, Likes, Query{
		Filters: []Filter{{Path: "like_id", Op: "in", Value: likeIDs}},
		OrderBy: "created_at",
		Limit:   len(likeIDs),
	})
	if err != nil {
		return nil, fmt.Errorf("querying likes: %w", err)
	}

	out := make([]string, 0, len(docs))
	for _, raw := range docs {
		var l likes.Like
		if err := unmarshalDoc(raw, &l); err != nil {
			return nil, err
		}
		out = append(out, l.LikeID)
	}
	return out, nil
}

func subjectCollection(subjectType string) string {
	if subjectType == likes.SubjectComment {
		return Comments
	}
	return Posts
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
