package service

import (
	"context"
	"sync"

	"crypto-ramp-backend/internal/common/logger"
	usermodels "crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/platform/credstore"

	"crypto-ramp-backend/internal/features/onboarding/models"
)

// Router turns a resolved stage into the single forward navigation. It is
// idempotent: repeating the same stage yields a no-op instead of a duplicate
// screen push. Before every navigation the latest known user record is
// persisted, so a later cold start sees consistent state without a network
// round-trip.
type Router struct {
	store credstore.Store
	links LinkRequester
	nav   Navigator

	mu      sync.Mutex
	last    models.Route
	hasLast bool
}

func NewRouter(store credstore.Store, links LinkRequester, nav Navigator) *Router {
	return &Router{
		store: store,
		links: links,
		nav:   nav,
	}
}

// RouteUser resolves the user's stage and routes accordingly. Cache and
// link-request failures are deliberately fail-open: after the user has done
// their part, a backend hiccup must not strand them on the current screen.
func (r *Router) RouteUser(ctx context.Context, user *usermodels.User) models.Route {
	stage := ResolveStage(user)
	route := routeForStage(stage)

	r.mu.Lock()
	if r.hasLast && r.last == route {
		r.mu.Unlock()
		r.persist(ctx, user)
		return route
	}
	r.last = route
	r.hasLast = true
	r.mu.Unlock()

	if stage == models.StageNeedsVerification && user != nil && user.KYCVerificationURL == "" {
		if url, err := r.links.RequestLink(ctx, user.ID); err != nil {
			logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to request verification link")
		} else {
			user.KYCVerificationURL = url
		}
	}

	r.persist(ctx, user)
	r.nav.Navigate(route)
	return route
}

// RouteUnauthenticated sends the user to the sign-in entry point.
func (r *Router) RouteUnauthenticated() {
	r.mu.Lock()
	if r.hasLast && r.last == models.RouteSignIn {
		r.mu.Unlock()
		return
	}
	r.last = models.RouteSignIn
	r.hasLast = true
	r.mu.Unlock()

	r.nav.Navigate(models.RouteSignIn)
}

func (r *Router) persist(ctx context.Context, user *usermodels.User) {
	if user == nil {
		return
	}
	if err := r.store.SaveUser(ctx, user); err != nil {
		logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to cache user snapshot")
	}
}

func routeForStage(stage models.Stage) models.Route {
	switch stage {
	case models.StageNeedsVerification:
		return models.RouteVerificationWait
	case models.StageNeedsBankDetails:
		return models.RouteBankDetails
	default:
		return models.RouteMain
	}
}
