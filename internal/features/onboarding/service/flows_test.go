package service

import (
	"context"
	"errors"
	"testing"

	usermodels "crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/platform/credstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-ramp-backend/internal/features/onboarding/models"
)

type fakeSubmitter struct {
	err error
}

func (f *fakeSubmitter) SubmitBankDetails(_ context.Context, userID string, details *usermodels.BankDetails) (*usermodels.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &usermodels.User{
		ID:                userID,
		KYCVerified:       true,
		BankDetailsStatus: true,
		BankFullName:      details.FullName,
		BankIBAN:          details.IBAN,
	}, nil
}

func TestCompleteBankDetails(t *testing.T) {
	ctx := context.Background()
	nav := &fakeNavigator{}
	router := NewRouter(credstore.NewMemoryStore(), &fakeLinks{}, nav)

	user := &usermodels.User{ID: "u1", KYCVerified: true}
	details := &usermodels.BankDetails{FullName: "Jane Doe", IBAN: "DE02120300000000202051"}

	got := CompleteBankDetails(ctx, &fakeSubmitter{}, router, user, details)

	assert.Equal(t, models.RouteMain, got)
	assert.Equal(t, []models.Route{models.RouteMain}, nav.all())
}

func TestCompleteBankDetailsFailOpen(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()
	nav := &fakeNavigator{}
	router := NewRouter(store, &fakeLinks{}, nav)

	user := &usermodels.User{ID: "u1", KYCVerified: true}
	details := &usermodels.BankDetails{
		FullName: "Jane Doe",
		IBAN:     "DE02120300000000202051",
		SwiftBIC: "BYLADEM1001",
		BankName: "Testbank",
		Country:  "DE",
	}

	got := CompleteBankDetails(ctx, &fakeSubmitter{err: errors.New("backend down")}, router, user, details)

	// Navigation proceeds despite the backend failure.
	assert.Equal(t, models.RouteMain, got)
	assert.Equal(t, []models.Route{models.RouteMain}, nav.all())

	// The local cache reflects the client-side submitted values.
	cached, err := store.LoadUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.True(t, cached.BankDetailsStatus)
	assert.Equal(t, "Jane Doe", cached.BankFullName)
	assert.Equal(t, "DE02120300000000202051", cached.BankIBAN)
}
