package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"HappyDog/internal/clock"
	"HappyDog/internal/core/users"
)

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *mockNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int, cursor string) ([]*Notification, string, error) {
	args := m.Called(ctx, recipientID, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]*Notification), args.String(1), args.Error(2)
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	args := m.Called(ctx, notificationID, recipientID)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, userID string) (*users.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *mockUserRepository) GetByNickname(ctx context.Context, nickname string) (*users.User, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func TestNotify_DropsSelfNotification(t *testing.T) {
	repo := new(mockNotificationRepository)
	userRepo := new(mockUserRepository)
	svc := NewService(repo, userRepo, clock.UTC{}, nil)

	svc.Notify(context.Background(), "user-1", "user-1", TypePostLike, "post-1", nil)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestNotify_SnapshotsSender(t *testing.T) {
	repo := new(mockNotificationRepository)
	userRepo := new(mockUserRepository)
	img := "https://cdn/happy.jpg"
	userRepo.On("GetByID", mock.Anything, "user-2").Return(&users.User{
		UserID: "user-2", Nickname: "bowwow", ProfileImageURL: &img,
	}, nil)

	var captured *Notification
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*Notification)
	}).Return(nil)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(repo, userRepo, clock.Fixed(now), nil)
	summary := "nice photo"
	svc.Notify(context.Background(), "user-1", "user-2", TypeComment, "post-1", &summary)

	require.NotNil(t, captured)
	assert.Equal(t, "user-1", captured.RecipientID)
	assert.Equal(t, "bowwow", captured.Sender.Nickname)
	assert.Equal(t, &img, captured.Sender.ProfileImageURL)
	assert.Equal(t, TypeComment, captured.Type)
	assert.False(t, captured.IsRead)
	assert.True(t, captured.CreatedAt.Equal(now))
}

func TestNotify_SystemSender(t *testing.T) {
	repo := new(mockNotificationRepository)
	userRepo := new(mockUserRepository)

	var captured *Notification
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*Notification)
	}).Return(nil)

	svc := NewService(repo, userRepo, clock.UTC{}, nil)
	svc.Notify(context.Background(), "user-1", SystemSenderID, TypeCartoonSuccess, "job-1", nil)

	require.NotNil(t, captured)
	assert.Equal(t, SystemSenderNickname, captured.Sender.Nickname)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestNotify_SwallowsWriteFailure(t *testing.T) {
	repo := new(mockNotificationRepository)
	userRepo := new(mockUserRepository)
	userRepo.On("GetByID", mock.Anything, "user-2").Return(&users.User{UserID: "user-2", Nickname: "x"}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := NewService(repo, userRepo, clock.UTC{}, nil)
	// Must not panic or propagate.
	svc.Notify(context.Background(), "user-1", "user-2", TypePostLike, "post-1", nil)
}

func TestNotify_UnknownSenderDropped(t *testing.T) {
	repo := new(mockNotificationRepository)
	userRepo := new(mockUserRepository)
	userRepo.On("GetByID", mock.Anything, "ghost").Return(nil, users.ErrNotFound)

	svc := NewService(repo, userRepo, clock.UTC{}, nil)
	svc.Notify(context.Background(), "user-1", "ghost", TypeMention, "post-1", nil)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
