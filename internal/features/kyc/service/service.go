package service

import (
	"context"
	"errors"
	"fmt"

	"crypto-ramp-backend/internal/common/logger"
	"crypto-ramp-backend/internal/features/kyc/models"
	userservice "crypto-ramp-backend/internal/features/user/service"
)

var (
	ErrAlreadyVerified = errors.New("user already verified")
	ErrUserNotFound    = errors.New("user not found")
)

// LinkProvider creates a hosted verification session for a user.
type LinkProvider interface {
	CreateSession(ctx context.Context, userID string) (string, error)
}

type KYCService interface {
	// GenerateLink is idempotent while the user is unverified: a previously
	// issued link is returned as is instead of opening a second session.
	GenerateLink(ctx context.Context, userID string) (string, error)
	HandleWebhook(ctx context.Context, payload *models.WebhookPayload) error
}

type kycService struct {
	users    userservice.UserService
	provider LinkProvider
}

func NewKYCService(users userservice.UserService, provider LinkProvider) KYCService {
	return &kycService{
		users:    users,
		provider: provider,
	}
}

func (s *kycService) GenerateLink(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.KYCVerified {
		return "", ErrAlreadyVerified
	}
	if user.KYCVerificationURL != "" {
		return user.KYCVerificationURL, nil
	}

	url, err := s.provider.CreateSession(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("create verification session: %w", err)
	}

	if _, err := s.users.SetVerificationLink(ctx, userID, url); err != nil {
		return "", err
	}

	logger.Info().Str("user_id", userID).Msg("Verification session created")
	return url, nil
}

func (s *kycService) HandleWebhook(ctx context.Context, payload *models.WebhookPayload) error {
	if payload.ReviewStatus != models.ReviewStatusCompleted {
		// Intermediate statuses (pending, onHold) carry no decision.
		return nil
	}

	verified := payload.ReviewResult == models.ReviewAnswerApproved
	if err := s.users.SetKYCVerified(ctx, payload.ExternalUserID, verified); err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			return fmt.Errorf("webhook for unknown user %s", payload.ExternalUserID)
		}
		return err
	}

	logger.Info().
		Str("user_id", payload.ExternalUserID).
		Bool("verified", verified).
		Msg("KYC review applied")
	return nil
}
