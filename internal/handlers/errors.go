package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/services/api_key"
	"github.com/arent-kient/api-key-dashboard/internal/services/auth"
	"github.com/arent-kient/api-key-dashboard/internal/utils"
)

// errorStatus maps service errors onto HTTP status codes
func errorStatus(err error) int {
	var validationErr *api_key.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, auth.ErrAuthRequired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the {"error": ...} body for err
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	message := err.Error()
	switch status {
	case http.StatusNotFound:
		message = "API key not found"
	case http.StatusConflict:
		message = "An API key with this value already exists"
	case http.StatusServiceUnavailable:
		message = "API key store is unavailable"
	case http.StatusInternalServerError:
		logrus.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		utils.CaptureError(err, map[string]string{"route": c.FullPath()})
		message = "Internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}
