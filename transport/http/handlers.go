package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/service"
)

// AuthHandlers contains the HTTP handlers for the session endpoint group.
type AuthHandlers struct {
	auth          *service.AuthService
	users         *service.UserService
	secureCookies bool
}

// NewAuthHandlers creates new auth handlers. secureCookies selects the
// cross-site cookie mode used in production deployments.
func NewAuthHandlers(auth *service.AuthService, users *service.UserService, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{
		auth:          auth,
		users:         users,
		secureCookies: secureCookies,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=2,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid registration data")
		return
	}

	user, creds, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateEmail) {
			respondError(c, http.StatusBadRequest, "Email already registered")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	setRefreshCookie(c, creds.RefreshToken, h.secureCookies)
	respondMessage(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":        user,
		"accessToken": creds.AccessToken,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid login data")
		return
	}

	user, creds, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			// Unknown email and wrong password answer identically
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	setRefreshCookie(c, creds.RefreshToken, h.secureCookies)
	respondMessage(c, http.StatusOK, "Login successful", gin.H{
		"user":        user,
		"accessToken": creds.AccessToken,
	})
}

// Refresh handles POST /auth/refresh. The refresh token travels only in the
// cookie; a valid one mints a new access token without rotating the cookie.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshCookieName)
	if err != nil || refreshToken == "" {
		respondError(c, http.StatusUnauthorized, "No refresh token provided")
		return
	}

	accessToken, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, core.ErrInvalidRefreshToken) {
			respondError(c, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	respondData(c, http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout handles POST /auth/logout. It clears the cookie unconditionally and
// never fails, valid token or not.
func (h *AuthHandlers) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(RefreshCookieName)
	h.auth.Logout(c.Request.Context(), refreshToken)

	clearRefreshCookie(c, h.secureCookies)
	respondMessage(c, http.StatusOK, "Logout successful", nil)
}

// Me handles GET /users/me.
func (h *AuthHandlers) Me(c *gin.Context) {
	user, err := h.users.Profile(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondData(c, http.StatusOK, gin.H{"user": user})
}
