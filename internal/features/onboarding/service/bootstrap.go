package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"crypto-ramp-backend/internal/common/logger"
	authmodels "crypto-ramp-backend/internal/features/auth/models"
	usermodels "crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/platform/credstore"
)

type BootstrapState string

const (
	BootstrapUnstarted       BootstrapState = "unstarted"
	BootstrapRestoring       BootstrapState = "restoring"
	BootstrapAuthenticated   BootstrapState = "authenticated"
	BootstrapUnauthenticated BootstrapState = "unauthenticated"
)

type BootstrapResult struct {
	State   BootstrapState
	User    *usermodels.User
	Session *authmodels.Session
}

// Bootstrap is the cold-start sequence: recover a live or persisted session,
// validate it remotely and settle on Authenticated or Unauthenticated before
// any stage decision is made. Run is guarded against double-invocation: a
// concurrent second caller blocks until the first run finishes and then gets
// the same result.
type Bootstrap struct {
	store     credstore.Store
	validator SessionValidator
	live      LiveSessionSource // optional

	mu     sync.Mutex // serializes Run
	result *BootstrapResult
	state  atomic.Value // BootstrapState
}

func NewBootstrap(store credstore.Store, validator SessionValidator, live LiveSessionSource) *Bootstrap {
	b := &Bootstrap{
		store:     store,
		validator: validator,
		live:      live,
	}
	b.state.Store(BootstrapUnstarted)
	return b
}

func (b *Bootstrap) State() BootstrapState {
	return b.state.Load().(BootstrapState)
}

// Run drives Unstarted -> Restoring -> Authenticated|Unauthenticated. It
// never returns a partial state: every failure path lands on
// Unauthenticated, with the stale credential cleared where required.
func (b *Bootstrap) Run(ctx context.Context) *BootstrapResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.result != nil {
		return b.result
	}

	b.state.Store(BootstrapRestoring)

	session := b.liveSession(ctx)
	fromStore := false
	if session == nil {
		var err error
		session, err = b.store.LoadSession(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to read persisted session")
			session = nil
		}
		fromStore = session != nil
	}

	if session == nil {
		return b.finish(ctx, &BootstrapResult{State: BootstrapUnauthenticated})
	}

	user, err := b.validator.ValidateSession(ctx, session)
	if err != nil {
		if errors.Is(err, ErrSessionRejected) {
			// Fail closed: never keep a credential the backend refused.
			if clearErr := b.store.ClearSession(ctx); clearErr != nil {
				logger.Error().Err(clearErr).Msg("Failed to clear rejected session")
			}
		} else {
			logger.Warn().Err(err).Msg("Session validation unreachable")
		}
		return b.finish(ctx, &BootstrapResult{State: BootstrapUnauthenticated})
	}

	// The session must be durably persisted before Run reports
	// Authenticated; a crash after this point cannot lose it.
	if !fromStore {
		if err := b.store.SaveSession(ctx, session); err != nil {
			logger.Error().Err(err).Msg("Failed to persist session")
			return b.finish(ctx, &BootstrapResult{State: BootstrapUnauthenticated})
		}
	}
	if err := b.store.SaveUser(ctx, user); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache user snapshot")
	}
	if err := b.store.SetAuthenticated(ctx, true); err != nil {
		logger.Warn().Err(err).Msg("Failed to set authenticated flag")
	}

	return b.finish(ctx, &BootstrapResult{
		State:   BootstrapAuthenticated,
		User:    user,
		Session: session,
	})
}

func (b *Bootstrap) finish(ctx context.Context, res *BootstrapResult) *BootstrapResult {
	if res.State == BootstrapUnauthenticated {
		if err := b.store.SetAuthenticated(ctx, false); err != nil {
			logger.Warn().Err(err).Msg("Failed to clear authenticated flag")
		}
	}
	b.result = res
	b.state.Store(res.State)
	return res
}

func (b *Bootstrap) liveSession(ctx context.Context) *authmodels.Session {
	if b.live == nil {
		return nil
	}
	session, err := b.live.CurrentSession(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read live session")
		return nil
	}
	return session
}
