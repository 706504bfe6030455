package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/errors"
)

// pulls the bearer token out of an Authorization header
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" || strings.Contains(token, " ") {
		return "", false
	}

	return token, true
}

// validates JWT tokens and adds creator info to context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			errors.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := ValidateJWT(token)
		if err != nil {
			errors.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(contextCreatorID, claims.UserID)
		c.Set(contextEmail, claims.Email)

		c.Next()
	}
}

// validates JWT if present but doesn't require it
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := ValidateJWT(token); err == nil {
				c.Set(contextCreatorID, claims.UserID)
				c.Set(contextEmail, claims.Email)
			}
		}

		c.Next()
	}
}

// extracts the creator id from context after AuthMiddleware
func GetUserID(c *gin.Context) (string, bool) {
	creatorID := c.GetString(contextCreatorID)
	return creatorID, creatorID != ""
}
