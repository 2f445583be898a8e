package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/service"
)

const userIDKey = "userID"

// AuthMiddleware is the request gate: it requires a valid bearer access token
// on every protected endpoint and performs no renewal itself — renewal is
// entirely the client's job.
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		// Check that the Authorization header is present and in Bearer format
		if len(header) < 8 || header[:7] != "Bearer " {
			abortError(c, http.StatusUnauthorized, "No token provided")
			return
		}

		token := header[7:]

		session, err := auth.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, core.ErrTokenExpired) {
				abortError(c, http.StatusUnauthorized, "Token expired")
			} else {
				abortError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// userID returns the authenticated user id set by AuthMiddleware.
func userID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
