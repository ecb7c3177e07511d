package credstore

import (
	"context"

	authmodels "crypto-ramp-backend/internal/features/auth/models"
	usermodels "crypto-ramp-backend/internal/features/user/models"
)

// Store is the installation-local secure storage: one opaque session blob,
// one cached user snapshot and one "is authenticated" flag, each under a
// fixed key and independently clearable. Setting a new session atomically
// replaces the previous one; at most one session is ever persisted.
type Store interface {
	SaveSession(ctx context.Context, session *authmodels.Session) error
	// LoadSession returns nil when no session is persisted.
	LoadSession(ctx context.Context) (*authmodels.Session, error)
	ClearSession(ctx context.Context) error

	SaveUser(ctx context.Context, user *usermodels.User) error
	// LoadUser returns nil when no snapshot is cached.
	LoadUser(ctx context.Context) (*usermodels.User, error)
	ClearUser(ctx context.Context) error

	SetAuthenticated(ctx context.Context, v bool) error
	IsAuthenticated(ctx context.Context) (bool, error)
}
