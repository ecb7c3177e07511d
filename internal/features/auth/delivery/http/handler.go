package http

import (
	"errors"
	"net/http"
	"time"

	"crypto-ramp-backend/internal/common/logger"
	"crypto-ramp-backend/internal/features/auth/models"
	"crypto-ramp-backend/internal/features/auth/service"
	userservice "crypto-ramp-backend/internal/features/user/service"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

type AuthHandler struct {
	service  service.AuthService
	users    userservice.UserService
	botToken string
}

func NewAuthHandler(service service.AuthService, users userservice.UserService, botToken string) *AuthHandler {
	return &AuthHandler{
		service:  service,
		users:    users,
		botToken: botToken,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	otp := router.Group("/otp")
	{
		otp.POST("/request", h.RequestCode)
		otp.POST("/verify", h.VerifyCode)
	}

	auth := router.Group("/auth")
	{
		auth.POST("/telegram", h.TelegramLogin)
	}

	session := router.Group("/session")
	{
		session.POST("/refresh", h.Refresh)
		session.GET("/me", authRequired, h.Me)
	}

	grants := router.Group("/login-grants")
	{
		grants.POST("", h.CreateLoginGrant)
		grants.GET("/:id", h.GetLoginGrant)
		grants.POST("/:id/approve", authRequired, h.ApproveLoginGrant)
	}
}

// @Summary Request a login code
// @Description Emails a one-time 6-digit code. Throttled to 3 requests per 5 minutes per address.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RequestCodeRequest true "Email address"
// @Success 200 {object} models.RequestCodeResponse
// @Failure 400 {object} map[string]string "Invalid email"
// @Failure 429 {object} map[string]string "Throttled"
// @Router /otp/request [post]
func (h *AuthHandler) RequestCode(c *gin.Context) {
	var req models.RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}

	expiresIn, err := h.service.RequestCode(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrThrottled) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many code requests, try again later"})
			return
		}
		logger.Error().Err(err).Msg("Failed to issue login code")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to send code"})
		return
	}

	c.JSON(http.StatusOK, models.RequestCodeResponse{
		Success:          true,
		ExpiresInSeconds: expiresIn,
	})
}

// @Summary Verify a login code
// @Description Exchanges a valid code for the user record and a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.VerifyCodeRequest true "Email and code"
// @Success 200 {object} models.VerifyCodeResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Invalid or expired code"
// @Router /otp/verify [post]
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, session, err := h.service.VerifyCode(c.Request.Context(), req.Email, req.OTPCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
			return
		}
		logger.Error().Err(err).Msg("Failed to verify login code")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, models.VerifyCodeResponse{
		Success: true,
		User:    user,
		Session: session,
	})
}

// @Summary Log in with Telegram Mini App init data
// @Description Validates init data and provisions the telegram-anchored user
// @Tags auth
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.VerifyCodeResponse
// @Failure 401 {object} map[string]string "Invalid init data"
// @Router /auth/telegram [post]
func (h *AuthHandler) TelegramLogin(c *gin.Context) {
	initDataQuery := c.GetHeader("init_data")
	if initDataQuery == "" || h.botToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Telegram init data required"})
		return
	}

	if err := initdata.Validate(initDataQuery, h.botToken, 20*time.Minute); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Failed to validate init data"})
		return
	}
	parsed, err := initdata.Parse(initDataQuery)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to parse init data"})
		return
	}

	user, session, err := h.service.TelegramLogin(c.Request.Context(), parsed.User.ID)
	if err != nil {
		logger.Error().Err(err).Int64("telegram_id", parsed.User.ID).Msg("Telegram login failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, models.VerifyCodeResponse{
		Success: true,
		User:    user,
		Session: session,
	})
}

// @Summary Rotate a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest true "Refresh token"
// @Success 200 {object} models.Session
// @Failure 401 {object} map[string]string "Invalid refresh token"
// @Router /session/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		logger.Error().Err(err).Msg("Failed to rotate refresh token")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Refresh failed"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// @Summary Open a login grant
// @Description Creates a pending grant for the external login-confirmation flow; the caller polls it by id
// @Tags auth
// @Produce json
// @Success 200 {object} models.LoginGrant
// @Router /login-grants [post]
func (h *AuthHandler) CreateLoginGrant(c *gin.Context) {
	grant, err := h.service.CreateLoginGrant(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create login grant")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create grant"})
		return
	}
	c.JSON(http.StatusOK, grant)
}

// @Summary Poll a login grant
// @Tags auth
// @Produce json
// @Param id path string true "Grant ID"
// @Success 200 {object} models.LoginGrant
// @Failure 404 {object} map[string]string "Unknown or expired grant"
// @Router /login-grants/{id} [get]
func (h *AuthHandler) GetLoginGrant(c *gin.Context) {
	grant, err := h.service.GetLoginGrant(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrGrantNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Grant not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, grant)
}

// @Summary Approve a login grant
// @Description Authenticated approval; attaches a fresh session to the grant
// @Tags auth
// @Produce json
// @Param id path string true "Grant ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "Unknown or expired grant"
// @Router /login-grants/{id}/approve [post]
func (h *AuthHandler) ApproveLoginGrant(c *gin.Context) {
	userID, ok := c.Get("user_id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.service.ApproveLoginGrant(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrGrantNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Grant not found"})
			return
		}
		logger.Error().Err(err).Msg("Failed to approve login grant")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Approval failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary Current user for a bearer session
// @Description Validates the access token and returns the owning user record
// @Tags auth
// @Produce json
// @Success 200 {object} usermodels.User
// @Failure 401 {object} map[string]string "Invalid session"
// @Router /session/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := c.Get("user_id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
