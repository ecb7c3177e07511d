package http

import (
	"errors"
	"net/http"

	"crypto-ramp-backend/internal/common/logger"
	"crypto-ramp-backend/internal/features/kyc/models"
	"crypto-ramp-backend/internal/features/kyc/service"

	"github.com/gin-gonic/gin"
)

type KYCHandler struct {
	service service.KYCService
}

func NewKYCHandler(service service.KYCService) *KYCHandler {
	return &KYCHandler{service: service}
}

func (h *KYCHandler) RegisterRoutes(router *gin.RouterGroup) {
	kyc := router.Group("/kyc")
	{
		kyc.POST("/generate-link", h.GenerateLink)
		kyc.POST("/webhook", h.Webhook)
	}
}

// @Summary Generate a verification link
// @Description Creates (or returns the existing) hosted verification session for a user
// @Tags kyc
// @Accept json
// @Produce json
// @Param request body models.GenerateLinkRequest true "User ID"
// @Success 200 {object} models.GenerateLinkResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Already verified"
// @Router /kyc/generate-link [post]
func (h *KYCHandler) GenerateLink(c *gin.Context) {
	var req models.GenerateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	url, err := h.service.GenerateLink(c.Request.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrAlreadyVerified):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Already verified"})
		default:
			logger.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to generate verification link")
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Verification provider unavailable"})
		}
		return
	}

	c.JSON(http.StatusOK, models.GenerateLinkResponse{VerificationURL: url})
}

// @Summary Verification vendor webhook
// @Description Applies a finished review to the user record. Always answers 200 so the vendor does not retry-flood on internal failures.
// @Tags kyc
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /kyc/webhook [post]
func (h *KYCHandler) Webhook(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn().Err(err).Msg("Unparseable KYC webhook payload")
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), &payload); err != nil {
		logger.Error().Err(err).Str("external_user_id", payload.ExternalUserID).Msg("KYC webhook processing failed")
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
