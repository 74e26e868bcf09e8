package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arent-kient/api-key-dashboard/internal/middleware"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/preferences"
)

// Page is the data shared by every rendered page
type Page struct {
	Title            string
	Path             string
	Active           string
	User             *models.Principal
	DarkMode         bool
	SidebarCollapsed bool
	Flash            *Flash
}

// pages builds Page values and stores the preferences they show
type pages struct {
	prefs        preferences.Store
	cookieSecure bool
	sessionTTL   time.Duration
}

func (p *pages) page(c *gin.Context, title, active string) Page {
	page := Page{
		Title:  title,
		Path:   c.Request.URL.Path,
		Active: active,
		Flash:  takeFlash(c, p.cookieSecure),
	}
	if principal, ok := middleware.GetPrincipal(c); ok {
		ctx := c.Request.Context()
		page.User = principal
		page.DarkMode = preferences.GetBool(ctx, p.prefs, preferences.UserKey(principal.UserID, preferences.DarkMode))
		page.SidebarCollapsed = preferences.GetBool(ctx, p.prefs, preferences.UserKey(principal.UserID, preferences.SidebarCollapsed))
	}
	return page
}

func (p *pages) flash(c *gin.Context, kind, message string) {
	setFlash(c, kind, message, p.cookieSecure)
}

// toggleUserPref flips a per-user flag and returns the new value
func (p *pages) toggleUserPref(ctx context.Context, userID, name string) (bool, error) {
	key := preferences.UserKey(userID, name)
	value := !preferences.GetBool(ctx, p.prefs, key)
	return value, preferences.SetBool(ctx, p.prefs, key, value, 0)
}

// returnPath reads the form's return target, falling back to fallback
func returnPath(c *gin.Context, fallback string) string {
	target := c.PostForm("return")
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.ContainsAny(target, "\\\r\n") {
		return fallback
	}
	return target
}
