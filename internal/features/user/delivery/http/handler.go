package http

import (
	"errors"
	"net/http"

	"crypto-ramp-backend/internal/common/logger"
	"crypto-ramp-backend/internal/features/user/models"
	"crypto-ramp-backend/internal/features/user/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id/bank-details", h.UpdateBankDetails)
	}
}

// @Summary Get user by ID
// @Description Point read of the directory record
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User "User record"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Submit bank details
// @Description Stores the five bank fields and atomically marks bank details as provided
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param details body models.BankDetails true "Bank details"
// @Success 200 {object} models.User "Updated record"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /users/{id}/bank-details [patch]
func (h *UserHandler) UpdateBankDetails(c *gin.Context) {
	var details models.BankDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.service.SubmitBankDetails(c.Request.Context(), c.Param("id"), &details)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error().Err(err).Str("user_id", c.Param("id")).Msg("Failed to update bank details")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
