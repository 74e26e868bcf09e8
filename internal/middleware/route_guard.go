package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// SignInPath is where unauthenticated page requests are sent
const SignInPath = "/auth/signin"

// HomeAfterSignIn is where signed-in users are sent from auth pages
const HomeAfterSignIn = "/dashboards"

var staticExtensions = map[string]bool{
	".svg": true, ".png": true, ".jpg": true, ".jpeg": true,
	".ico": true, ".css": true, ".js": true,
}

// IsAuthPage reports whether p is one of the sign-in flow pages
func IsAuthPage(p string) bool {
	return p == "/auth" || strings.HasPrefix(p, "/auth/")
}

// IsPublicPath reports whether p is reachable without a session
func IsPublicPath(p string) bool {
	switch {
	case p == "/":
		return true
	case p == "/api" || strings.HasPrefix(p, "/api/"):
		return true
	case strings.HasPrefix(p, "/static/"), strings.HasPrefix(p, "/swagger/"):
		return true
	case p == "/metrics", p == "/health":
		return true
	}
	return staticExtensions[strings.ToLower(path.Ext(p))]
}

// RouteGuard redirects signed-in users away from auth pages and anonymous
// users from protected pages to sign-in. Must run after Session.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		_, hasSession := GetPrincipal(c)
		authPage := IsAuthPage(p)

		if authPage && hasSession {
			c.Redirect(http.StatusFound, HomeAfterSignIn)
			c.Abort()
			return
		}

		if !authPage && !hasSession && !IsPublicPath(p) {
			target := SignInPath + "?" + url.Values{"callbackUrl": {p}}.Encode()
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		c.Next()
	}
}
