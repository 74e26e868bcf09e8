package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/models"
)

// KeyValidator looks up a raw API key
type KeyValidator interface {
	ValidateKey(ctx context.Context, raw string) (*models.APIKey, error)
}

// APIKeyAuth authenticates a request by API key, read from
// "Authorization: ApiKey <key>" or the x-api-key header
func APIKeyAuth(validator KeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := apiKeyFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key is required"})
			return
		}

		key, err := validator.ValidateKey(c.Request.Context(), raw)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		case errors.Is(err, repository.ErrStoreUnavailable):
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "API key store unavailable"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate API key"})
			return
		}

		c.Set(ContextAPIKey, key)
		c.Next()
	}
}

func apiKeyFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "ApiKey ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "ApiKey "))
	}
	return strings.TrimSpace(c.GetHeader("x-api-key"))
}
