package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/internal/middleware"
	"github.com/arent-kient/api-key-dashboard/internal/services/keymanager"
	"github.com/arent-kient/api-key-dashboard/internal/services/preferences"
)

const dashboardPath = "/dashboards"

// defaultFormLimit is the monthly limit offered by the create dialog
const defaultFormLimit = 1000

// Plan is the subscription summary shown on the dashboard
type Plan struct {
	Name  string
	Usage int
	Limit int
}

// DashboardHandler renders the key dashboard and applies its form posts
// through the session's key manager
type DashboardHandler struct {
	pages
	registry  *keymanager.Registry
	planName  string
	planLimit int
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(registry *keymanager.Registry, prefs preferences.Store, planName string, planLimit int, cookieSecure bool) *DashboardHandler {
	return &DashboardHandler{
		pages:     pages{prefs: prefs, cookieSecure: cookieSecure},
		registry:  registry,
		planName:  planName,
		planLimit: planLimit,
	}
}

type keyRow struct {
	ID           string
	Name         string
	Type         string
	Key          string
	Display      string
	Visible      bool
	Usage        int
	MonthlyLimit *int
	CreatedAt    time.Time
	LastUsed     time.Time
}

type dashboardPage struct {
	Page
	Plan         Plan
	Keys         []keyRow
	Loading      bool
	Error        string
	Origin       string
	ShowCreate   bool
	DefaultLimit int
	EditKey      *keyRow
}

// manager returns the key manager for the signed-in session
func (h *DashboardHandler) manager(c *gin.Context) (*keymanager.Manager, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok || principal.SessionID == "" {
		c.Redirect(http.StatusFound, middleware.SignInPath)
		return nil, false
	}
	return h.registry.Get(principal.SessionID), true
}

// Show renders GET /dashboards. The list is loaded on the first visit of a
// session and reloaded on ?refresh=1.
func (h *DashboardHandler) Show(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	if !m.Snapshot().Loaded || c.Query("refresh") == "1" {
		m.Refresh(c.Request.Context())
	}

	snap := m.Snapshot()
	data := dashboardPage{
		Page:         h.page(c, "Overview", "overview"),
		Plan:         Plan{Name: h.planName, Usage: snap.TotalUsage(), Limit: h.planLimit},
		Keys:         make([]keyRow, 0, len(snap.Keys)),
		Loading:      snap.Loading,
		Error:        snap.Error,
		Origin:       sessionOrigin(c),
		ShowCreate:   c.Query("create") == "1",
		DefaultLimit: defaultFormLimit,
	}
	for _, k := range snap.Keys {
		data.Keys = append(data.Keys, keyRow{
			ID:           k.ID,
			Name:         k.Name,
			Type:         k.Type,
			Key:          k.Key,
			Display:      m.DisplayValue(k.Key, k.ID),
			Visible:      snap.Visible[k.ID],
			Usage:        k.Usage,
			MonthlyLimit: k.MonthlyLimit,
			CreatedAt:    k.CreatedAt,
			LastUsed:     k.LastUsed,
		})
	}
	if editID := c.Query("edit"); editID != "" {
		for i := range data.Keys {
			if data.Keys[i].ID == editID {
				data.EditKey = &data.Keys[i]
				break
			}
		}
	}

	c.HTML(http.StatusOK, "dashboards.html", data)
}

// CreateKey handles POST /dashboards/keys
func (h *DashboardHandler) CreateKey(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}

	limited := c.PostForm("limited") != ""
	limit := defaultFormLimit
	if raw := c.PostForm("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.flash(c, FlashError, "Failed to create API key: monthly limit must be a number")
			c.Redirect(http.StatusSeeOther, dashboardPath+"?create=1")
			return
		}
		limit = parsed
	}

	result := m.Create(sessionEventContext(c), c.PostForm("name"), c.DefaultPostForm("type", "development"), limited, limit)
	h.report(c, result, "API key created successfully", "Failed to create API key")
}

// RenameKey handles POST /dashboards/keys/:id/rename
func (h *DashboardHandler) RenameKey(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	result := m.Rename(sessionEventContext(c), c.Param("id"), c.PostForm("name"))
	h.report(c, result, "API key updated successfully", "Failed to update API key")
}

// DeleteKey handles POST /dashboards/keys/:id/delete
func (h *DashboardHandler) DeleteKey(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	result := m.Remove(sessionEventContext(c), c.Param("id"))
	h.report(c, result, "API key deleted successfully", "Failed to delete API key")
}

// ToggleKey handles POST /dashboards/keys/:id/toggle
func (h *DashboardHandler) ToggleKey(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	m.ToggleVisibility(c.Param("id"))
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// ClearError handles POST /dashboards/error/clear
func (h *DashboardHandler) ClearError(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	m.ClearError()
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// ToggleSidebar handles POST /dashboards/preferences/sidebar
func (h *DashboardHandler) ToggleSidebar(c *gin.Context) {
	h.togglePreference(c, preferences.SidebarCollapsed)
}

// ToggleTheme handles POST /dashboards/preferences/theme
func (h *DashboardHandler) ToggleTheme(c *gin.Context) {
	h.togglePreference(c, preferences.DarkMode)
}

func (h *DashboardHandler) togglePreference(c *gin.Context, name string) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.SignInPath)
		return
	}
	if _, err := h.toggleUserPref(c.Request.Context(), principal.UserID, name); err != nil {
		logrus.Errorf("Failed to store preference %s: %v", name, err)
		h.flash(c, FlashError, "Failed to save preference")
	}
	c.Redirect(http.StatusSeeOther, returnPath(c, dashboardPath))
}

func (h *DashboardHandler) report(c *gin.Context, result keymanager.Result, success, failure string) {
	if result.Success {
		h.flash(c, FlashSuccess, success)
	} else {
		message := failure
		if result.Error != "" && result.Error != failure {
			message += ": " + result.Error
		}
		h.flash(c, FlashError, message)
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

