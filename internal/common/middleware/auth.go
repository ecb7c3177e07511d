package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AccessValidator checks a bearer token and returns the owning user id.
type AccessValidator interface {
	ValidateAccess(token string) (string, error)
}

func AuthRequired(validator AccessValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		userID, err := validator.ValidateAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
