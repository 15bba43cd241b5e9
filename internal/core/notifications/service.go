package notifications

import (
	"context"
	"log/slog"

	"HappyDog/internal/clock"
	"HappyDog/internal/core/users"
)

type notificationService struct {
	repo   Repository
	users  users.Repository
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a notification service.
func NewService(repo Repository, userRepo users.Repository, clk clock.Clock, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{
		repo:   repo,
		users:  userRepo,
		clock:  clk,
		logger: logger,
	}
}

// Notify writes one notification document. Self-notifications are dropped
// silently; any failure is logged and swallowed so the triggering operation
// never rolls back over fan-out.
func (s *notificationService) Notify(ctx context.Context, recipientID, senderID, notifType, targetID string, targetSummary *string) {
	if recipientID == senderID {
		return
	}

	sender, err := s.senderSnapshot(ctx, senderID)
	if err != nil {
		s.logger.Warn("notification dropped: sender lookup failed",
			"sender", senderID,
			"recipient", recipientID,
			"type", notifType,
			"error", err)
		return
	}

	n := &Notification{
		NotificationID: clock.NewUUID(),
		RecipientID:    recipientID,
		Sender:         sender,
		Type:           notifType,
		TargetID:       targetID,
		TargetSummary:  targetSummary,
		IsRead:         false,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("notification write failed",
			"recipient", recipientID,
			"type", notifType,
			"error", err)
		return
	}

	s.logger.Info("notification created",
		"type", notifType,
		"sender", senderID,
		"recipient", recipientID)
}

// senderSnapshot reads the sender once for the embedded snapshot. The
// "system" sender is a constant and needs no lookup.
func (s *notificationService) senderSnapshot(ctx context.Context, senderID string) (users.Snapshot, error) {
	if senderID == SystemSenderID {
		return users.Snapshot{
			UserID:   SystemSenderID,
			Nickname: SystemSenderNickname,
		}, nil
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return users.Snapshot{}, err
	}
	return sender.Snapshot(), nil
}

func (s *notificationService) List(ctx context.Context, recipientID string, limit int, cursor string) ([]*Notification, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.ListByRecipient(ctx, recipientID, limit, cursor)
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	return s.repo.MarkRead(ctx, notificationID, recipientID)
}
