package repository

import (
	"context"
	"time"

	"crypto-ramp-backend/internal/features/auth/models"
)

type AuthRepository interface {
	// SaveCode stores the latest code record for an email, replacing any
	// previous one. The record must expire from the store no earlier than
	// its ExpiresAt.
	SaveCode(ctx context.Context, rec *models.CodeRecord) error
	// GetCode returns the latest code record for an email, or nil when none
	// is stored.
	GetCode(ctx context.Context, email string) (*models.CodeRecord, error)
	MarkCodeUsed(ctx context.Context, email string) error

	// RecordRequest adds one issuance timestamp to the email's sliding
	// throttle window; CountRecentRequests counts entries newer than since.
	RecordRequest(ctx context.Context, email string, at time.Time) error
	CountRecentRequests(ctx context.Context, email string, since time.Time) (int, error)

	AppendAttempt(ctx context.Context, entry *models.AttemptLogEntry) error

	// SaveLoginGrant stores a grant under its opaque id for the given TTL;
	// GetLoginGrant returns nil when the id is unknown or expired.
	SaveLoginGrant(ctx context.Context, grant *models.LoginGrant, ttl time.Duration) error
	GetLoginGrant(ctx context.Context, id string) (*models.LoginGrant, error)

	SaveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error
	// GetRefreshToken returns the owning user id, or "" when the token is
	// unknown or expired.
	GetRefreshToken(ctx context.Context, token string) (string, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}
