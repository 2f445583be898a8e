package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RefreshCookieName is the cookie carrying the refresh token. It is httpOnly
// and path-scoped to "/": the browser attaches it automatically and client
// code can never read it.
const RefreshCookieName = "refreshToken"

const refreshCookieMaxAge = 7 * 24 * 60 * 60 // 7 days, in seconds

// setRefreshCookie installs the refresh token cookie on the response.
// Cross-site production deployments need Secure + SameSite=None; everything
// else gets the relaxed Lax mode.
func setRefreshCookie(c *gin.Context, token string, secure bool) {
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(RefreshCookieName, token, refreshCookieMaxAge, "/", "", secure, true)
}

// clearRefreshCookie expires the refresh token cookie.
func clearRefreshCookie(c *gin.Context, secure bool) {
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(RefreshCookieName, "", -1, "/", "", secure, true)
}
