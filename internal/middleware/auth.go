package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/models"
)

// AuthMiddleware validates the Authorization header and stores the caller's
// identity on the context.
func AuthMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		identity, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", identity.UserID)
		c.Set("role", identity.Role)
		c.Next()
	}
}

// RequireSeller rejects callers that are not sellers. Must run after
// AuthMiddleware.
func RequireSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleSeller {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "seller account required"})
			return
		}
		c.Next()
	}
}
