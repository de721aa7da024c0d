package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"TNSBot/internal/domain"
)

func TestTickerRunsImmediatelyAndRepeats(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := NewTickerScheduler(10 * time.Millisecond)
	require.NoError(t, s.Start(context.Background(), func(time.Time) { runs.Add(1) }))

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, after, runs.Load())
}

func TestTickerStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{}, 1)
	s := NewTickerScheduler(time.Hour)
	require.NoError(t, s.Start(ctx, func(time.Time) {
		select {
		case started <- struct{}{}:
		default:
		}
	}))

	<-started
	cancel()
	require.NoError(t, s.Stop(context.Background()))
}

func TestTickerStartTwiceKeepsOneLoop(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := NewTickerScheduler(time.Hour)
	job := func(time.Time) { runs.Add(1) }
	require.NoError(t, s.Start(context.Background(), job))
	require.NoError(t, s.Start(context.Background(), job))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
	require.Equal(t, int32(1), runs.Load())
}

func TestTickerRejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	err := NewTickerScheduler(0).Start(context.Background(), func(time.Time) {})
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewTickerScheduler(time.Second).Stop(context.Background()))
}
