package service

import (
	usermodels "crypto-ramp-backend/internal/features/user/models"

	"crypto-ramp-backend/internal/features/onboarding/models"
)

// ResolveStage maps a user record's verification flags to the next required
// onboarding stage. Verification always gates bank details; the check order
// is fixed. A nil record and unset flags both resolve toward "more steps
// required", never toward Complete.
func ResolveStage(user *usermodels.User) models.Stage {
	if user == nil || !user.KYCVerified {
		return models.StageNeedsVerification
	}
	if !user.BankDetailsStatus {
		return models.StageNeedsBankDetails
	}
	return models.StageComplete
}
