package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	usermodels "crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/platform/credstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-ramp-backend/internal/features/onboarding/models"
)

type fakeDirectory struct {
	mu    sync.Mutex
	calls int
	fn    func(call int) (*usermodels.User, error)
}

func (f *fakeDirectory) FetchUser(_ context.Context, id string) (*usermodels.User, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.fn(call)
}

func TestWatcherResolvesOnWebhookFlip(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	nav := &fakeNavigator{}
	router := NewRouter(store, &fakeLinks{}, nav)

	// The webhook flips kyc_verified on the third poll.
	dir := &fakeDirectory{fn: func(call int) (*usermodels.User, error) {
		return &usermodels.User{ID: "u1", KYCVerified: call >= 3}, nil
	}}

	w := NewVerificationWatcher(dir, store, router, "u1")
	w.Poller().Interval = time.Millisecond

	require.NoError(t, w.Start(ctx))
	w.Poller().Wait()

	assert.Equal(t, PollResolved, w.Poller().State())
	assert.Equal(t, 3, dir.calls)

	// Refreshed record persisted and handed off to the router.
	cached, err := store.LoadUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.True(t, cached.KYCVerified)
	assert.Equal(t, []models.Route{models.RouteBankDetails}, nav.all())
}

func TestWatcherFailsOnDirectoryError(t *testing.T) {
	store := credstore.NewMemoryStore()
	nav := &fakeNavigator{}
	router := NewRouter(store, &fakeLinks{}, nav)

	dir := &fakeDirectory{fn: func(int) (*usermodels.User, error) {
		return nil, errors.New("fetch failed")
	}}

	w := NewVerificationWatcher(dir, store, router, "u1")
	w.Poller().Interval = time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	w.Poller().Wait()

	// Surfaced to the user with a manual retry affordance; no navigation.
	assert.Equal(t, PollFailed, w.Poller().State())
	assert.Empty(t, nav.all())
}

func TestWatcherTimesOutWhileUnverified(t *testing.T) {
	store := credstore.NewMemoryStore()
	router := NewRouter(store, &fakeLinks{}, &fakeNavigator{})

	dir := &fakeDirectory{fn: func(int) (*usermodels.User, error) {
		return &usermodels.User{ID: "u1"}, nil
	}}

	w := NewVerificationWatcher(dir, store, router, "u1")
	w.Poller().Interval = time.Millisecond
	w.Poller().MaxTicks = 5

	require.NoError(t, w.Start(context.Background()))
	w.Poller().Wait()

	assert.Equal(t, PollTimedOut, w.Poller().State())
	assert.Equal(t, 5, dir.calls)
}
