package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenClaims are the validated claims of a bearer token.
type TokenClaims struct {
	UserID    uuid.UUID
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// TokenValidator is an interface for validating bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the authenticated identity in the context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromHeader(c, validator)
		if !ok {
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the viewer when a valid token is
// present and passes the request through as anonymous otherwise. Used on
// read endpoints whose responses carry viewer-relative flags.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		if claims, err := validator.ValidateToken(parts[1]); err == nil {
			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
		}
		c.Next()
	}
}

// ViewerID returns the authenticated user id, or nil for anonymous
// requests.
func ViewerID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

func claimsFromHeader(c *gin.Context, validator TokenValidator) (*TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		return nil, false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return nil, false
	}
	return claims, true
}
