package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/arent-kient/api-key-dashboard/internal/middleware"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/auth"
	"github.com/arent-kient/api-key-dashboard/internal/services/keymanager"
	"github.com/arent-kient/api-key-dashboard/internal/services/preferences"
)

// forceLoginTTL keeps the account chooser forced for the next sign-in
const forceLoginTTL = 24 * time.Hour

// AuthHandler handles Google sign-in, sign-out and the auth pages
type AuthHandler struct {
	pages
	authService *auth.AuthService
	registry    *keymanager.Registry
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService *auth.AuthService, registry *keymanager.Registry, prefs preferences.Store, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		pages: pages{
			prefs:        prefs,
			cookieSecure: cookieSecure,
			sessionTTL:   authService.SessionTTL(),
		},
		authService: authService,
		registry:    registry,
	}
}

// SignInGoogle handles GET /api/auth/signin/google
// @Summary Start Google sign-in
// @Description Redirects to the Google consent screen. callbackUrl must be a relative path.
// @Tags auth
// @Param callbackUrl query string false "Where to land after sign-in" default(/dashboards)
// @Success 302 "Redirect to Google"
// @Router /api/auth/signin/google [get]
func (h *AuthHandler) SignInGoogle(c *gin.Context) {
	_, forceLoginErr := c.Cookie(auth.ForceLoginCookie)
	selectAccount := forceLoginErr == nil

	redirectURL, stateCookie, err := h.authService.BeginSignIn(c.Query("callbackUrl"), selectAccount)
	if err != nil {
		h.redirectToError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.StateCookie, stateCookie, int(auth.StateTTL.Seconds()), "/api/auth", "", h.cookieSecure, true)
	if selectAccount {
		c.SetCookie(auth.ForceLoginCookie, "", -1, "/", "", h.cookieSecure, true)
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// CallbackGoogle handles GET /api/auth/callback/google
// @Summary Finish Google sign-in
// @Description Verifies the OAuth state, signs the user in and redirects to the callback URL
// @Tags auth
// @Param state query string true "OAuth state"
// @Param code query string false "Authorization code"
// @Param error query string false "Provider error"
// @Success 302 "Redirect to the callback URL or /auth/error"
// @Router /api/auth/callback/google [get]
func (h *AuthHandler) CallbackGoogle(c *gin.Context) {
	stateCookie, _ := c.Cookie(auth.StateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.StateCookie, "", -1, "/api/auth", "", h.cookieSecure, true)

	result, err := h.authService.CompleteSignIn(c.Request.Context(), auth.CallbackParams{
		State:       c.Query("state"),
		Code:        c.Query("code"),
		Error:       c.Query("error"),
		StateCookie: stateCookie,
	})
	if err != nil {
		h.redirectToError(c, err)
		return
	}

	c.SetCookie(auth.SessionCookie, result.Token, int(h.sessionTTL.Seconds()), "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusFound, result.CallbackURL)
}

// SignOut handles POST /api/auth/signout
// @Summary Sign out
// @Description Revokes every session of the signed-in user and forces the account chooser on the next sign-in
// @Tags auth
// @Success 303 "Redirect to /"
// @Router /api/auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if principal, ok := middleware.GetPrincipal(c); ok {
		ctx := c.Request.Context()
		if err := h.authService.SignOut(ctx, principal.UserID); err != nil {
			logrus.Errorf("Failed to revoke sessions for user %s: %v", principal.UserID, err)
		}
		h.registry.Forget(principal.SessionID)
		for _, name := range []string{preferences.APIKeyValidated, preferences.APIKey} {
			if err := h.prefs.Delete(ctx, preferences.SessionKey(principal.SessionID, name)); err != nil {
				logrus.Warnf("Failed to clear session preference %s: %v", name, err)
			}
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.SetCookie(auth.ForceLoginCookie, "true", int(forceLoginTTL.Seconds()), "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// Session handles GET /api/auth/session
// @Summary Current session
// @Description Returns the signed-in user, or an empty object
// @Tags auth
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Router /api/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusOK, models.SessionResponse{})
		return
	}
	c.JSON(http.StatusOK, models.SessionResponse{
		User:    principal,
		Expires: principal.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Home renders /
func (h *AuthHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", h.page(c, "Home", ""))
}

type signInPage struct {
	Page
	SignInURL    string
	ErrorMessage string
}

// SignInPage renders /auth/signin
func (h *AuthHandler) SignInPage(c *gin.Context) {
	callbackURL := auth.SanitizeCallbackURL(c.Query("callbackUrl"))
	data := signInPage{
		Page:      h.page(c, "Sign in", ""),
		SignInURL: "/api/auth/signin/google?" + url.Values{"callbackUrl": {callbackURL}}.Encode(),
	}
	if code := c.Query("error"); code != "" {
		data.ErrorMessage = auth.ErrorMessage(code)
	}
	c.HTML(http.StatusOK, "signin.html", data)
}

// SignOutPage renders /auth/signout
func (h *AuthHandler) SignOutPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signout.html", h.page(c, "Sign out", ""))
}

type errorPage struct {
	Page
	ErrorMessage string
}

// ErrorPage renders /auth/error
func (h *AuthHandler) ErrorPage(c *gin.Context) {
	c.HTML(http.StatusOK, "error.html", errorPage{
		Page:         h.page(c, "Authentication Error", ""),
		ErrorMessage: auth.ErrorMessage(c.Query("error")),
	})
}

func (h *AuthHandler) redirectToError(c *gin.Context, err error) {
	code := auth.ErrorCode(err)
	logrus.WithField("code", code).Warnf("Sign-in failed: %v", err)
	c.Redirect(http.StatusFound, "/auth/error?"+url.Values{"error": {code}}.Encode())
}
