// Package users holds the user entity and the read paths other services
// lean on: snapshots for denormalization and nickname resolution for mentions.
package users

import "time"

// User is the account document.
type User struct {
	UserID          string    `json:"user_id"`
	ExternalSub     string    `json:"external_sub"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	FCMToken        *string   `json:"fcm_token,omitempty"`
	JoinedAt        time.Time `json:"joined_at"`
}

// Snapshot is the denormalized author blob embedded in posts, comments and
// notifications. Captured at creation time and deliberately never refreshed.
type Snapshot struct {
	UserID          string  `json:"user_id"`
	Nickname        string  `json:"nickname"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// Snapshot captures the embeddable view of the user.
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		UserID:          u.UserID,
		Nickname:        u.Nickname,
		ProfileImageURL: u.ProfileImageURL,
	}
}
