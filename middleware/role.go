package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects callers whose token does not carry the named role.
// It must run after JWTAuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get("roles")
		if exists {
			if roles, ok := raw.([]string); ok {
				for _, r := range roles {
					if r == role {
						c.Next()
						return
					}
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}
