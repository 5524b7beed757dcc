package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDrainer struct{}

func (nopDrainer) DrainPending(ctx context.Context) {}

type nopSweeper struct{}

func (nopSweeper) VerifySweep() (int, error) { return 0, nil }

func TestWakeupScheduler_StartStop(t *testing.T) {
	s := NewWakeupScheduler(nopDrainer{}, nopSweeper{}, "*/15 * * * *", "0 * * * *")

	require.NoError(t, s.Start(context.Background()))
	// Second start is a no-op
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	// Second stop is a no-op
	s.Stop()
}

func TestWakeupScheduler_InvalidDrainSchedule(t *testing.T) {
	s := NewWakeupScheduler(nopDrainer{}, nopSweeper{}, "not-a-cron-expr", "0 * * * *")

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid drain schedule")
}

func TestWakeupScheduler_InvalidSweepSchedule(t *testing.T) {
	s := NewWakeupScheduler(nopDrainer{}, nopSweeper{}, "*/15 * * * *", "61 * * * *")

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sweep schedule")
}

func TestWakeupScheduler_EmptySchedulesSkipJobs(t *testing.T) {
	s := NewWakeupScheduler(nil, nil, "", "")

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
