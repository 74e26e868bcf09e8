package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/keycodec"
	"github.com/arent-kient/api-key-dashboard/internal/middleware"
	"github.com/arent-kient/api-key-dashboard/internal/services/preferences"
)

const (
	playgroundPath = "/playground"
	protectedPath  = "/protected"
)

// PlaygroundHandler lets a signed-in user check an API key and view the
// page it unlocks
type PlaygroundHandler struct {
	pages
	validator middleware.KeyValidator
}

// NewPlaygroundHandler creates a new PlaygroundHandler instance
func NewPlaygroundHandler(validator middleware.KeyValidator, prefs preferences.Store, sessionTTL time.Duration, cookieSecure bool) *PlaygroundHandler {
	return &PlaygroundHandler{
		pages:     pages{prefs: prefs, cookieSecure: cookieSecure, sessionTTL: sessionTTL},
		validator: validator,
	}
}

// Show renders GET /playground
func (h *PlaygroundHandler) Show(c *gin.Context) {
	c.HTML(http.StatusOK, "playground.html", h.page(c, "API Playground", "playground"))
}

// Submit handles POST /playground
func (h *PlaygroundHandler) Submit(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.SignInPath)
		return
	}

	raw := strings.TrimSpace(c.PostForm("api_key"))
	if raw == "" {
		h.flash(c, FlashError, "Please enter an API key")
		c.Redirect(http.StatusSeeOther, playgroundPath)
		return
	}

	ctx := c.Request.Context()
	key, err := h.validator.ValidateKey(ctx, raw)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.flash(c, FlashError, "Invalid API key")
		c.Redirect(http.StatusSeeOther, playgroundPath)
		return
	case err != nil:
		logrus.Errorf("Failed to validate playground API key: %v", err)
		h.flash(c, FlashError, "An error occurred. Please try again.")
		c.Redirect(http.StatusSeeOther, playgroundPath)
		return
	}

	sid := principal.SessionID
	if err := preferences.SetBool(ctx, h.prefs, preferences.SessionKey(sid, preferences.APIKeyValidated), true, h.sessionTTL); err != nil {
		logrus.Errorf("Failed to store playground validation: %v", err)
		h.flash(c, FlashError, "An error occurred. Please try again.")
		c.Redirect(http.StatusSeeOther, playgroundPath)
		return
	}
	if err := h.prefs.Set(ctx, preferences.SessionKey(sid, preferences.APIKey), keycodec.Mask(key.Key), h.sessionTTL); err != nil {
		logrus.Warnf("Failed to store playground key: %v", err)
	}

	h.flash(c, FlashSuccess, "Valid API key, /protected can be accessed")
	c.Redirect(http.StatusSeeOther, protectedPath)
}

type protectedPage struct {
	Page
	MaskedKey string
}

// Protected renders GET /protected for sessions that passed the playground
func (h *PlaygroundHandler) Protected(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.SignInPath)
		return
	}

	ctx := c.Request.Context()
	sid := principal.SessionID
	maskedKey, err := h.prefs.Get(ctx, preferences.SessionKey(sid, preferences.APIKey))
	if !preferences.GetBool(ctx, h.prefs, preferences.SessionKey(sid, preferences.APIKeyValidated)) || err != nil {
		h.flash(c, FlashError, "Access denied. No valid API key found.")
		c.Redirect(http.StatusFound, playgroundPath)
		return
	}

	c.HTML(http.StatusOK, "protected.html", protectedPage{
		Page:      h.page(c, "Protected", "playground"),
		MaskedKey: maskedKey,
	})
}

// Clear handles POST /protected/clear
func (h *PlaygroundHandler) Clear(c *gin.Context) {
	if principal, ok := middleware.GetPrincipal(c); ok {
		ctx := c.Request.Context()
		for _, name := range []string{preferences.APIKeyValidated, preferences.APIKey} {
			if err := h.prefs.Delete(ctx, preferences.SessionKey(principal.SessionID, name)); err != nil {
				logrus.Warnf("Failed to clear session preference %s: %v", name, err)
			}
		}
	}
	c.Redirect(http.StatusSeeOther, playgroundPath)
}
