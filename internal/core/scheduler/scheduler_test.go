package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("not a schedule", time.UTC, func(context.Context) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule")

	_, err = New("  ", time.UTC, func(context.Context) {})
	require.Error(t, err)
}

func TestNew_RejectsSecondsField(t *testing.T) {
	_, err := New("0 0 9 * * 1-5", time.UTC, func(context.Context) {})
	require.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	s, err := New("0 9,15 * * 1-5", loc, func(context.Context) {})
	require.NoError(t, err)

	s.Start()
	entries := s.cron.Entries()
	require.Len(t, entries, 1)

	next := entries[0].Next.In(loc)
	assert.Contains(t, []int{9, 15}, next.Hour())
	assert.NotEqual(t, time.Saturday, next.Weekday())
	assert.NotEqual(t, time.Sunday, next.Weekday())

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
