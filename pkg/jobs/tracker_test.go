package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerLifecycle(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(NewMemoryStore())

	id, err := tracker.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	status, err := tracker.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StatePending, status.State)

	require.NoError(t, tracker.Progress(ctx, id, 40, "processing sheet CCD"))
	status, err = tracker.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StateProcessing, status.State)
	require.Equal(t, 40, status.Progress)
	require.Equal(t, "processing sheet CCD", status.Message)

	require.NoError(t, tracker.Complete(ctx, id, "done"))
	status, err = tracker.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StateCompleted, status.State)
	require.Equal(t, 100, status.Progress)
}

func TestTrackerClampsProgress(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(NewMemoryStore())

	id, err := tracker.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, tracker.Progress(ctx, id, 150, "over"))
	status, err := tracker.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 100, status.Progress)

	require.NoError(t, tracker.Progress(ctx, id, -5, "under"))
	status, err = tracker.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 0, status.Progress)
}

func TestTrackerUnknownJob(t *testing.T) {
	tracker := NewTracker(NewMemoryStore())
	_, err := tracker.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrJobNotFound)
}
