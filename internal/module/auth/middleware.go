package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/response"
)

// Context keys set by RequireAdmin.
const (
	ContextAdminID    = "admin_id"
	ContextAdminEmail = "admin_email"
)

// TokenValidator validates access tokens.
type TokenValidator interface {
	ValidateToken(token string) (*Claims, error)
}

// RequireAdmin rejects requests without a valid Bearer token.
func RequireAdmin(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			response.AbortWithCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.AbortWithCode(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAdmin records the admin identity when a valid Bearer token is
// present. Guests and invalid tokens pass through anonymously.
func OptionalAdmin(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := validator.ValidateToken(token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *gin.Context, claims *Claims) {
	c.Set(ContextAdminID, claims.AdminID)
	c.Set(ContextAdminEmail, claims.Email)
}

// GetAdminID returns the authenticated admin id, or 0.
func GetAdminID(c *gin.Context) uint {
	v, ok := c.Get(ContextAdminID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}
