package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerTimesOutAtTickCeiling(t *testing.T) {
	var fetches int64
	p := NewPoller(func(ctx context.Context) (bool, error) {
		atomic.AddInt64(&fetches, 1)
		return false, nil
	})
	p.Interval = time.Millisecond
	p.MaxTicks = 60

	require.NoError(t, p.Start(context.Background()))
	p.Wait()

	assert.Equal(t, PollTimedOut, p.State())
	// Ticks 0..59 fetch; the tick-60 slot times out instead of fetching.
	assert.EqualValues(t, 60, atomic.LoadInt64(&fetches))
}

func TestPollerResolves(t *testing.T) {
	var fetches int64
	var resolved atomic.Bool
	p := NewPoller(func(ctx context.Context) (bool, error) {
		return atomic.AddInt64(&fetches, 1) == 3, nil
	})
	p.Interval = time.Millisecond
	p.OnResolved = func() { resolved.Store(true) }

	require.NoError(t, p.Start(context.Background()))
	p.Wait()

	assert.Equal(t, PollResolved, p.State())
	assert.True(t, resolved.Load())
	assert.EqualValues(t, 3, atomic.LoadInt64(&fetches))
}

func TestPollerFailsOnFetchError(t *testing.T) {
	fetchErr := errors.New("directory unreachable")
	var got atomic.Value
	p := NewPoller(func(ctx context.Context) (bool, error) {
		return false, fetchErr
	})
	p.Interval = time.Millisecond
	p.OnFailed = func(err error) { got.Store(err) }

	require.NoError(t, p.Start(context.Background()))
	p.Wait()

	// A fetch failure stops the loop immediately, no silent retry.
	assert.Equal(t, PollFailed, p.State())
	assert.Equal(t, fetchErr, got.Load())
}

func TestPollerStopSilencesTicks(t *testing.T) {
	var fetches int64
	p := NewPoller(func(ctx context.Context) (bool, error) {
		atomic.AddInt64(&fetches, 1)
		return false, nil
	})
	p.Interval = 2 * time.Millisecond
	p.MaxTicks = 100000

	require.NoError(t, p.Start(context.Background()))
	time.Sleep(10 * time.Millisecond)
	p.Stop()

	after := atomic.LoadInt64(&fetches)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt64(&fetches), "no tick may fire after teardown")
	assert.Equal(t, PollIdle, p.State())
}

func TestPollerRetryAfterTimeout(t *testing.T) {
	var fetches int64
	p := NewPoller(func(ctx context.Context) (bool, error) {
		atomic.AddInt64(&fetches, 1)
		return false, nil
	})
	p.Interval = time.Millisecond
	p.MaxTicks = 3

	require.NoError(t, p.Start(context.Background()))
	p.Wait()
	require.Equal(t, PollTimedOut, p.State())

	// Manual retry re-enters Polling from tick 0.
	require.NoError(t, p.Start(context.Background()))
	p.Wait()
	assert.Equal(t, PollTimedOut, p.State())
	assert.EqualValues(t, 6, atomic.LoadInt64(&fetches))
}

func TestPollerRejectsConcurrentStart(t *testing.T) {
	release := make(chan struct{})
	p := NewPoller(func(ctx context.Context) (bool, error) {
		<-release
		return true, nil
	})
	p.Interval = time.Millisecond

	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), ErrPollerActive)

	close(release)
	p.Wait()
}
