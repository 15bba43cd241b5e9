package notifications

import "context"

// Notifier is the write-side surface other services call after commit.
// Notify never fails the enclosing operation.
type Notifier interface {
	Notify(ctx context.Context, recipientID, senderID, notifType, targetID string, targetSummary *string)
}

// Service adds the read-side operations for the notification feed.
type Service interface {
	Notifier

	// List returns the recipient's notifications, newest first.
	List(ctx context.Context, recipientID string, limit int, cursor string) ([]*Notification, string, error)

	// MarkRead flags one notification as read, recipient-scoped.
	MarkRead(ctx context.Context, notificationID, recipientID string) error
}

// Repository defines the data access interface for notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int, cursor string) ([]*Notification, string, error)
	MarkRead(ctx context.Context, notificationID, recipientID string) error
}
