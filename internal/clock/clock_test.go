package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeLikeID(t *testing.T) {
	assert.Equal(t, "post_u1_p1", ComposeLikeID("post", "u1", "p1"))
	assert.Equal(t, "comment_u1_c9", ComposeLikeID("comment", "u1", "c9"))
}

func TestComposeDailyLogID_UsesUTCDate(t *testing.T) {
	// 23:30 in UTC+9 is 14:30 UTC the same day; 01:30 in UTC+9 is the prior UTC day
	kst := time.FixedZone("KST", 9*3600)

	late := time.Date(2025, 3, 10, 23, 30, 0, 0, kst)
	assert.Equal(t, "pet1_20250310", ComposeDailyLogID("pet1", late))

	early := time.Date(2025, 3, 10, 1, 30, 0, 0, kst)
	assert.Equal(t, "pet1_20250309", ComposeDailyLogID("pet1", early))
}

func TestSearchDate(t *testing.T) {
	kst := time.FixedZone("KST", 9*3600)
	assert.Equal(t, "2025-03-09", SearchDate(time.Date(2025, 3, 10, 1, 30, 0, 0, kst)))
	assert.Equal(t, "2025-03-10", SearchDate(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("KST", 9*3600))
	c := Fixed(at)
	assert.Equal(t, time.UTC, c.Now().Location())
	assert.True(t, c.Now().Equal(at))
}

func TestNewUUID(t *testing.T) {
	a := NewUUID()
	b := NewUUID()
	require.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
