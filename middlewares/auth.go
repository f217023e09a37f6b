package middlewares

import (
	"net/http"
	"strings"

	"pitchpilot/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards protected routes. Until a bearer token resolves
// to an identity nothing behind the guard runs; an absent or invalid
// token sends the caller back to the unauthenticated entry point with a
// 401. On success the identity is set in the request context.
func AuthMiddleware(provider services.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization token"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Authorization token format"})
			c.Abort()
			return
		}
		token := parts[1]

		identity, err := provider.Validate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userId", identity.UserID)
		c.Set("userEmail", identity.Email)
		c.Set("accessToken", token)
		c.Next()
	}
}
