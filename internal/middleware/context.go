package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/arent-kient/api-key-dashboard/internal/models"
)

// Context keys set by the middleware in this package
const (
	ContextPrincipal = "principal"
	ContextAPIKey    = "api_key"
)

// GetPrincipal returns the signed-in user attached by Session
func GetPrincipal(c *gin.Context) (*models.Principal, bool) {
	value, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*models.Principal)
	return principal, ok && principal != nil
}

// GetAPIKey returns the key attached by APIKeyAuth
func GetAPIKey(c *gin.Context) (*models.APIKey, bool) {
	value, ok := c.Get(ContextAPIKey)
	if !ok {
		return nil, false
	}
	key, ok := value.(*models.APIKey)
	return key, ok && key != nil
}
