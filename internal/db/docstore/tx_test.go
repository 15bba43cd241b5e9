package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryTx_NoSleepAfterFinalAttempt(t *testing.T) {
	s := New(nil, nil)

	runs, delays := 0, 0
	err := s.retryTx(context.Background(),
		func() time.Duration {
			delays++
			return 0
		},
		func() error {
			runs++
			return &pq.Error{Code: "40001"}
		})

	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, txMaxAttempts, runs)
	// No delay between the last attempt and surfacing ErrConflict.
	assert.Equal(t, txMaxAttempts-1, delays)
}

func TestRetryTx_DomainErrorAbortsImmediately(t *testing.T) {
	s := New(nil, nil)

	runs, delays := 0, 0
	boom := errors.New("boom")
	err := s.retryTx(context.Background(),
		func() time.Duration {
			delays++
			return 0
		},
		func() error {
			runs++
			return boom
		})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, runs)
	assert.Zero(t, delays)
}

func TestRetryTx_SucceedsAfterConflict(t *testing.T) {
	s := New(nil, nil)

	runs := 0
	err := s.retryTx(context.Background(),
		func() time.Duration { return 0 },
		func() error {
			runs++
			if runs == 1 {
				return &pq.Error{Code: "40P01"}
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 2, runs)
}
