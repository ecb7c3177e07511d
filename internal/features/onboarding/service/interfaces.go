package service

import (
	"context"
	"errors"

	authmodels "crypto-ramp-backend/internal/features/auth/models"
	usermodels "crypto-ramp-backend/internal/features/user/models"

	"crypto-ramp-backend/internal/features/onboarding/models"
)

// ErrSessionRejected is returned by a SessionValidator when the backend
// explicitly refuses the credential (expired or revoked), as opposed to a
// transport failure. Only a rejection makes the bootstrap delete the
// persisted session.
var ErrSessionRejected = errors.New("session rejected")

// Directory is the remote user directory as seen from the client core.
type Directory interface {
	FetchUser(ctx context.Context, id string) (*usermodels.User, error)
}

// SessionValidator checks a session against the backend and returns the
// owning user record.
type SessionValidator interface {
	ValidateSession(ctx context.Context, session *authmodels.Session) (*usermodels.User, error)
}

// LiveSessionSource exposes a session the auth layer already holds in
// memory for this process, if any.
type LiveSessionSource interface {
	CurrentSession(ctx context.Context) (*authmodels.Session, error)
}

// LinkRequester asks the backend for a hosted verification link.
type LinkRequester interface {
	RequestLink(ctx context.Context, userID string) (string, error)
}

// Navigator performs the single screen transition for a resolved route.
// Screens stay pure views behind this interface.
type Navigator interface {
	Navigate(route models.Route)
}
