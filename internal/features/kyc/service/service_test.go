package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"crypto-ramp-backend/internal/features/kyc/models"
	"crypto-ramp-backend/internal/features/user/repository/memory"
	userservice "crypto-ramp-backend/internal/features/user/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls int
	err   error
}

func (f *fakeProvider) CreateSession(_ context.Context, userID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://kyc.example/session/%s/%d", userID, f.calls), nil
}

func setup(t *testing.T) (KYCService, userservice.UserService, *fakeProvider, string) {
	t.Helper()
	users := userservice.NewUserService(memory.NewRepository())
	provider := &fakeProvider{}
	svc := NewKYCService(users, provider)

	user, err := users.GetOrCreateByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	return svc, users, provider, user.ID
}

func TestGenerateLink(t *testing.T) {
	ctx := context.Background()
	svc, users, provider, userID := setup(t)

	url, err := svc.GenerateLink(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, 1, provider.calls)

	stored, err := users.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, url, stored.KYCVerificationURL)
}

func TestGenerateLinkIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, provider, userID := setup(t)

	first, err := svc.GenerateLink(ctx, userID)
	require.NoError(t, err)

	// A repeated request returns the stored link without a second vendor
	// session.
	second, err := svc.GenerateLink(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls)
}

func TestGenerateLinkAlreadyVerified(t *testing.T) {
	ctx := context.Background()
	svc, users, provider, userID := setup(t)

	require.NoError(t, users.SetKYCVerified(ctx, userID, true))

	_, err := svc.GenerateLink(ctx, userID)
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	assert.Zero(t, provider.calls)
}

func TestGenerateLinkUnknownUser(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.GenerateLink(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGenerateLinkProviderDown(t *testing.T) {
	ctx := context.Background()
	svc, users, provider, userID := setup(t)
	provider.err = errors.New("boom")

	_, err := svc.GenerateLink(ctx, userID)
	require.Error(t, err)

	// No half-written link on the user.
	stored, err := users.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, stored.KYCVerificationURL)
}

func TestHandleWebhookApproved(t *testing.T) {
	ctx := context.Background()
	svc, users, _, userID := setup(t)

	err := svc.HandleWebhook(ctx, &models.WebhookPayload{
		ExternalUserID: userID,
		ReviewStatus:   models.ReviewStatusCompleted,
		ReviewResult:   models.ReviewAnswerApproved,
	})
	require.NoError(t, err)

	stored, err := users.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, stored.KYCVerified)
}

func TestHandleWebhookRejected(t *testing.T) {
	ctx := context.Background()
	svc, users, _, userID := setup(t)

	err := svc.HandleWebhook(ctx, &models.WebhookPayload{
		ExternalUserID: userID,
		ReviewStatus:   models.ReviewStatusCompleted,
		ReviewResult:   models.ReviewAnswerRejected,
	})
	require.NoError(t, err)

	stored, err := users.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.False(t, stored.KYCVerified)
}

func TestHandleWebhookIntermediateStatus(t *testing.T) {
	ctx := context.Background()
	svc, users, _, userID := setup(t)

	err := svc.HandleWebhook(ctx, &models.WebhookPayload{
		ExternalUserID: userID,
		ReviewStatus:   "pending",
		ReviewResult:   "",
	})
	require.NoError(t, err)

	stored, err := users.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.False(t, stored.KYCVerified)
}

func TestHandleWebhookUnknownUser(t *testing.T) {
	svc, _, _, _ := setup(t)

	err := svc.HandleWebhook(context.Background(), &models.WebhookPayload{
		ExternalUserID: "missing",
		ReviewStatus:   models.ReviewStatusCompleted,
		ReviewResult:   models.ReviewAnswerApproved,
	})
	assert.Error(t, err)
}
