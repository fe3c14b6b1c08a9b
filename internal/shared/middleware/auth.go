package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/internal/shared/response"
	"storefront-backend/pkg/jwt"
)

// Auth verifies the bearer token and puts the team member's identity into
// the request context. Admin routes additionally scope every query by the
// store_id claim.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		storeID, err := uuid.Parse(claims.StoreID)
		if err != nil {
			response.Unauthorized(c, "invalid store ID in token")
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("storeID", storeID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// StoreIDFromContext returns the authenticated store scope, uuid.Nil when
// the request is unauthenticated.
func StoreIDFromContext(c *gin.Context) uuid.UUID {
	if v, ok := c.Get("storeID"); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
