package models

import (
	"time"

	usermodels "crypto-ramp-backend/internal/features/user/models"
)

// CodeRecord is the stored side of one OTP issuance: a bcrypt hash of the
// 6-digit code, its expiry, and a single-use flag.
type CodeRecord struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"code_hash"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

// AttemptLogEntry is one row of the append-only auth attempt log, written
// win-or-lose for every request and verify call.
type AttemptLogEntry struct {
	Email   string    `json:"email"`
	Kind    string    `json:"kind"` // "request" or "verify"
	Success bool      `json:"success"`
	At      time.Time `json:"at"`
}

// Session is the bearer credential pair issued after a successful handshake.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type RequestCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RequestCodeResponse struct {
	Success          bool `json:"success"`
	ExpiresInSeconds int  `json:"expires_in_seconds"`
}

type VerifyCodeRequest struct {
	Email   string `json:"email" binding:"required,email"`
	OTPCode string `json:"otp_code" binding:"required,len=6,numeric"`
}

type VerifyCodeResponse struct {
	Success bool             `json:"success"`
	User    *usermodels.User `json:"user"`
	Session *Session         `json:"session"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login grant statuses for the external login-confirmation flow: a second
// device creates a grant, the user approves it from an authenticated app,
// and the second device polls the grant by its opaque id.
const (
	GrantPending  = "pending"
	GrantApproved = "approved"
)

type LoginGrant struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Session   *Session  `json:"session,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
