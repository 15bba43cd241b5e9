package likes

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"HappyDog/internal/clock"
)

type mockLikeRepository struct {
	mock.Mock

	mu         sync.Mutex
	chunkSizes []int
}

func (m *mockLikeRepository) Toggle(ctx context.Context, subjectType, userID, subjectID string, now time.Time) (bool, *SubjectSnapshot, error) {
	args := m.Called(ctx, subjectType, userID, subjectID, now)
	if args.Get(1) == nil {
		return args.Bool(0), nil, args.Error(2)
	}
	return args.Bool(0), args.Get(1).(*SubjectSnapshot), args.Error(2)
}

func (m *mockLikeRepository) ExistingLikeIDs(ctx context.Context, likeIDs []string) ([]string, error) {
	m.mu.Lock()
	m.chunkSizes = append(m.chunkSizes, len(likeIDs))
	m.mu.Unlock()
	args := m.Called(ctx, likeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

type notifyCall struct {
	recipientID string
	senderID    string
	notifType   string
	targetID    string
}

func (n *recordingNotifier) Notify(ctx context.Context, recipientID, senderID, notifType, targetID string, targetSummary *string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{recipientID, senderID, notifType, targetID})
}

func TestToggle_LikeNotifiesAuthor(t *testing.T) {
	repo := new(mockLikeRepository)
	notifier := &recordingNotifier{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	repo.On("Toggle", mock.Anything, SubjectPost, "user-1", "post-1", now).
		Return(true, &SubjectSnapshot{AuthorID: "author-1", Summary: "my dog", LikeCount: 5}, nil)

	svc := NewService(repo, notifier, clock.Fixed(now), nil)
	res, err := svc.Toggle(context.Background(), SubjectPost, "post-1", "user-1")
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 5, res.LikeCount)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "author-1", notifier.calls[0].recipientID)
	assert.Equal(t, "POST_LIKE", notifier.calls[0].notifType)
}

func TestToggle_UnlikeDoesNotNotify(t *testing.T) {
	repo := new(mockLikeRepository)
	notifier := &recordingNotifier{}
	now := time.Now().UTC()

	repo.On("Toggle", mock.Anything, SubjectComment, "user-1", "comment-1", now).
		Return(false, &SubjectSnapshot{AuthorID: "author-1", LikeCount: 0}, nil)

	svc := NewService(repo, notifier, clock.Fixed(now), nil)
	res, err := svc.Toggle(context.Background(), SubjectComment, "comment-1", "user-1")
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Empty(t, notifier.calls)
}

func TestToggle_CommentLikeType(t *testing.T) {
	repo := new(mockLikeRepository)
	notifier := &recordingNotifier{}
	now := time.Now().UTC()

	repo.On("Toggle", mock.Anything, SubjectComment, "user-1", "comment-1", now).
		Return(true, &SubjectSnapshot{AuthorID: "author-1", Summary: "nice", LikeCount: 1}, nil)

	svc := NewService(repo, notifier, clock.Fixed(now), nil)
	_, err := svc.Toggle(context.Background(), SubjectComment, "comment-1", "user-1")
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "COMMENT_LIKE", notifier.calls[0].notifType)
}

func TestToggle_RejectsUnknownSubjectType(t *testing.T) {
	svc := NewService(new(mockLikeRepository), &recordingNotifier{}, clock.UTC{}, nil)
	_, err := svc.Toggle(context.Background(), "pet", "x", "user-1")
	assert.True(t, IsValidationError(err))
}

func TestLikedSubjects_Chunking(t *testing.T) {
	cases := []struct {
		name       string
		count      int
		wantChunks []int
	}{
		{"exactly one chunk", 30, []int{30}},
		{"one over", 31, []int{30, 1}},
		{"two full chunks", 60, []int{30, 30}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(mockLikeRepository)
			repo.On("ExistingLikeIDs", mock.Anything, mock.Anything).Return([]string{}, nil)

			ids := make([]string, tc.count)
			for i := range ids {
				ids[i] = fmt.Sprintf("post-%03d", i)
			}

			svc := NewService(repo, &recordingNotifier{}, clock.UTC{}, nil)
			result, err := svc.LikedSubjects(context.Background(), SubjectPost, "user-1", ids)
			require.NoError(t, err)
			assert.Len(t, result, tc.count)

			repo.mu.Lock()
			defer repo.mu.Unlock()
			assert.ElementsMatch(t, tc.wantChunks, repo.chunkSizes)
		})
	}
}

func TestLikedSubjects_MapsHitsBack(t *testing.T) {
	repo := new(mockLikeRepository)
	likedID := clock.ComposeLikeID(SubjectPost, "user-1", "post-b")
	repo.On("ExistingLikeIDs", mock.Anything, mock.Anything).Return([]string{likedID}, nil)

	svc := NewService(repo, &recordingNotifier{}, clock.UTC{}, nil)
	result, err := svc.LikedSubjects(context.Background(), SubjectPost, "user-1", []string{"post-a", "post-b"})
	require.NoError(t, err)

	assert.False(t, result["post-a"])
	assert.True(t, result["post-b"])
}

func TestLikedSubjects_EmptyInput(t *testing.T) {
	repo := new(mockLikeRepository)
	svc := NewService(repo, &recordingNotifier{}, clock.UTC{}, nil)
	result, err := svc.LikedSubjects(context.Background(), SubjectPost, "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, result)
	repo.AssertNotCalled(t, "ExistingLikeIDs", mock.Anything, mock.Anything)
}
