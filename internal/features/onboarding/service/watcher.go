package service

import (
	"context"
	"sync"

	"crypto-ramp-backend/internal/common/logger"
	usermodels "crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/platform/credstore"

	"crypto-ramp-backend/internal/features/onboarding/models"
)

// VerificationWatcher drives the waiting screen for KYC review: it polls the
// directory until the resolver reports a stage other than NeedsVerification,
// then persists the refreshed record and hands off to the router.
type VerificationWatcher struct {
	directory Directory
	store     credstore.Store
	router    *Router
	userID    string

	poller *Poller

	mu      sync.Mutex
	refresh *usermodels.User
}

func NewVerificationWatcher(directory Directory, store credstore.Store, router *Router, userID string) *VerificationWatcher {
	w := &VerificationWatcher{
		directory: directory,
		store:     store,
		router:    router,
		userID:    userID,
	}

	w.poller = NewPoller(w.tick)
	w.poller.OnResolved = w.handOff
	return w
}

// Poller exposes the underlying loop for state inspection, timeout handling
// and manual retry wiring.
func (w *VerificationWatcher) Poller() *Poller {
	return w.poller
}

func (w *VerificationWatcher) Start(ctx context.Context) error {
	return w.poller.Start(ctx)
}

// Stop is the screen-teardown path.
func (w *VerificationWatcher) Stop() {
	w.poller.Stop()
}

func (w *VerificationWatcher) tick(ctx context.Context) (bool, error) {
	user, err := w.directory.FetchUser(ctx, w.userID)
	if err != nil {
		return false, err
	}

	if ResolveStage(user) == models.StageNeedsVerification {
		return false, nil
	}

	w.mu.Lock()
	w.refresh = user
	w.mu.Unlock()
	return true, nil
}

func (w *VerificationWatcher) handOff() {
	w.mu.Lock()
	user := w.refresh
	w.mu.Unlock()
	if user == nil {
		return
	}

	// Best effort: a failed cache write must not block the hand-off; the
	// in-memory record is authoritative for this navigation.
	ctx := context.Background()
	if err := w.store.SaveUser(ctx, user); err != nil {
		logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to persist refreshed record")
	}

	w.router.RouteUser(ctx, user)
}
