package service

import (
	"context"
	"testing"

	"crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/features/user/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateByEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewRepository())

	user, err := svc.GetOrCreateByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.False(t, user.KYCVerified)
	assert.False(t, user.BankDetailsStatus)
	assert.EqualValues(t, 10000, user.MonthlyLimit)
	assert.EqualValues(t, 1000, user.DailyLimit)
	assert.False(t, user.LimitResetDate.IsZero())

	again, err := svc.GetOrCreateByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestGetOrCreateByTelegramID(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewRepository())

	user, err := svc.GetOrCreateByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.EqualValues(t, 42, user.TelegramID)

	again, err := svc.GetOrCreateByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	other, err := svc.GetOrCreateByTelegramID(ctx, 43)
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, other.ID)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(memory.NewRepository())

	_, err := svc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubmitBankDetails(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewRepository())

	user, err := svc.GetOrCreateByEmail(ctx, "a@b.com")
	require.NoError(t, err)

	updated, err := svc.SubmitBankDetails(ctx, user.ID, &models.BankDetails{
		FullName: "Jane Doe",
		IBAN:     "DE89370400440532013000",
		SwiftBIC: "COBADEFFXXX",
		BankName: "Commerzbank",
		Country:  "DE",
	})
	require.NoError(t, err)
	assert.True(t, updated.BankDetailsStatus)
	assert.Equal(t, "DE89370400440532013000", updated.BankIBAN)

	// The flip is persisted, not just reflected on the returned copy.
	stored, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.BankDetailsStatus)
	assert.Equal(t, "Jane Doe", stored.BankFullName)
}

func TestSubmitBankDetailsUnknownUser(t *testing.T) {
	svc := NewUserService(memory.NewRepository())

	_, err := svc.SubmitBankDetails(context.Background(), "missing", &models.BankDetails{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetVerificationLink(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewRepository())

	user, err := svc.GetOrCreateByEmail(ctx, "a@b.com")
	require.NoError(t, err)

	updated, err := svc.SetVerificationLink(ctx, user.ID, "https://kyc.example/session/1")
	require.NoError(t, err)
	assert.Equal(t, "https://kyc.example/session/1", updated.KYCVerificationURL)
	assert.False(t, updated.KYCRequestedAt.IsZero())
}

func TestSetKYCVerified(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memory.NewRepository())

	user, err := svc.GetOrCreateByEmail(ctx, "a@b.com")
	require.NoError(t, err)

	require.NoError(t, svc.SetKYCVerified(ctx, user.ID, true))

	stored, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.KYCVerified)
}
