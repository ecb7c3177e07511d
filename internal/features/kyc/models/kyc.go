package models

// Review outcomes reported by the verification vendor's webhook.
const (
	ReviewStatusCompleted = "completed"
	ReviewAnswerApproved  = "GREEN"
	ReviewAnswerRejected  = "RED"
)

type GenerateLinkRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type GenerateLinkResponse struct {
	VerificationURL string `json:"verification_url"`
}

// WebhookPayload is what the vendor posts when a review finishes. The
// external user id is the correlation key we passed at session creation.
type WebhookPayload struct {
	ExternalUserID string `json:"externalUserId"`
	ReviewStatus   string `json:"reviewStatus"`
	ReviewResult   string `json:"reviewResult"`
}
