// Package notifications implements the fan-out helper: one typed
// notification document per event, self-notifications dropped, failures
// never propagated to the triggering operation.
package notifications

import (
	"time"

	"HappyDog/internal/core/users"
)

// Notification types.
const (
	TypePostLike       = "POST_LIKE"
	TypeCommentLike    = "COMMENT_LIKE"
	TypeComment        = "COMMENT"
	TypeMention        = "MENTION"
	TypeCartoonSuccess = "CARTOON_SUCCESS"
	TypeCartoonFailed  = "CARTOON_FAILED"
)

// The system sender used by cartoon job terminal transitions.
const (
	SystemSenderID       = "system"
	SystemSenderNickname = "HappyDog"
)

// Notification is one entry in a user's notification feed.
type Notification struct {
	NotificationID string         `json:"notification_id"`
	RecipientID    string         `json:"recipient_id"`
	Sender         users.Snapshot `json:"sender"`
	Type           string         `json:"type"`
	TargetID       string         `json:"target_id"`
	TargetSummary  *string        `json:"target_summary,omitempty"`
	IsRead         bool           `json:"is_read"`
	CreatedAt      time.Time      `json:"created_at"`
}
