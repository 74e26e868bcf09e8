package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/auth"
)

// SessionValidator resolves a session token to the signed-in user
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*models.Principal, error)
}

// Session attaches the principal for a valid session cookie or Bearer token.
// Requests without a valid session pass through unauthenticated.
func Session(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		principal, err := validator.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrAuthRequired) {
				logrus.Warnf("Session validation failed: %v", err)
			}
			c.Next()
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// RequireSession rejects requests that Session did not authenticate
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrAuthRequired.Error()})
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(auth.SessionCookie); err == nil && token != "" {
		return token
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
