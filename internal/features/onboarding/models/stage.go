package models

// Stage is the single next onboarding step a user must complete. It is
// always derived from the user record, never stored.
type Stage string

const (
	StageNeedsVerification Stage = "needs_verification"
	StageNeedsBankDetails  Stage = "needs_bank_details"
	StageComplete          Stage = "complete"
)

// Route is the navigation target the stage router resolves to.
type Route string

const (
	RouteSignIn           Route = "sign_in"
	RouteVerificationWait Route = "verification_wait"
	RouteBankDetails      Route = "bank_details"
	RouteMain             Route = "main"
)
