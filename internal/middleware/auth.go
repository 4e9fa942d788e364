package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authserver/internal/token"
)

// Context keys set for downstream handlers on successful verification.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
)

// AuthMiddleware creates a Gin middleware that gates protected routes.
// A missing or malformed Authorization header yields 401; a present but
// unverifiable token yields 403. The middleware is stateless: it consults
// only the access-token verifier, never the store.
func AuthMiddleware(issuer *token.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer <token>"})
			return
		}

		claims, err := issuer.ParseAccess(parts[1])
		if err != nil {
			logger.Debug("Rejected access token", zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)

		c.Next()
	}
}
