// Package clock is the single time and identifier authority for the service.
// created_at/updated_at fields are always stamped here, never taken from callers.
package clock

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock provides the current UTC instant. Services take a Clock instead of
// calling time.Now so tests can pin time.
type Clock interface {
	// Now returns the current instant in UTC.
	Now() time.Time
}

// UTC is the production clock.
type UTC struct{}

func (UTC) Now() time.Time {
	return time.Now().UTC()
}

// Fixed returns a clock pinned to t (UTC-normalized). For tests.
func Fixed(t time.Time) Clock {
	return fixed{t.UTC()}
}

type fixed struct{ t time.Time }

func (f fixed) Now() time.Time { return f.t }

// NewUUID returns a random UUID v4 string.
func NewUUID() string {
	return uuid.NewString()
}

// ComposeLikeID builds the deterministic like document id.
// Format: {subject_type}_{user_id}_{subject_id}. One like per (user, subject)
// falls out of this being the document primary key.
func ComposeLikeID(subjectType, userID, subjectID string) string {
	return fmt.Sprintf("%s_%s_%s", subjectType, userID, subjectID)
}

// ComposeDailyLogID builds the per-pet daily log id: {pet_id}_YYYYMMDD (UTC).
func ComposeDailyLogID(petID string, t time.Time) string {
	return fmt.Sprintf("%s_%s", petID, t.UTC().Format("20060102"))
}

// SearchDate derives the YYYY-MM-DD search key from a client-supplied event
// time. The instant is accepted as-is; the date is always computed in UTC.
func SearchDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
