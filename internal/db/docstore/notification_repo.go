package docstore

import (
	"context"
	"errors"
	"fmt"

	"HappyDog/internal/core/notifications"
)

// NotificationRepository implements notifications.Repository.
type NotificationRepository struct {
	store *Store
}

// NewNotificationRepository creates a notification repository.
func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notifications.Notification) error {
	return r.store.Set(ctx, Notifications, n.NotificationID, n)
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int, cursor string) ([]*notifications.Notification, string, error) {
	docs, next, err := r.store.QueryDocs(ctx, Notifications, Query{
		Filters: []Filter{{Path: "recipient_id", Value: recipientID}},
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
		Cursor:  cursor,
	})
	if err != nil {
		return nil, "", fmt.Errorf("querying notifications: %w", err)
	}

	out := make([]*notifications.Notification, 0, len(docs))
	for _, raw := range docs {
		var n notifications.Notification
		if err := unmarshalDoc(raw, &n); err != nil {
			return nil, "", err
		}
		out = append(out, &n)
	}
	return out, next, nil
}

// MarkRead flips is_read, recipient-scoped: another user's notification
// id reads as missing.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	return r.store.Transaction(ctx, func(tx *Tx) error {
		var n notifications.Notification
		if err := tx.Get(ctx, Notifications, notificationID, &n); err != nil {
			if errors.Is(err, ErrNotFound) {
				return notifications.ErrNotFound
			}
			return err
		}
		if n.RecipientID != recipientID {
			return notifications.ErrNotFound
		}
		return tx.Update(ctx, Notifications, notificationID, map[string]any{"is_read": true})
	})
}
