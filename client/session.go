package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/taskdeck/taskdeck/core"
)

// Session tracks who is logged in on top of a Client. It owns the current
// user profile; the access token itself lives inside the Client and is never
// persisted anywhere.
type Session struct {
	api *Client
	log *slog.Logger

	mu   sync.Mutex
	user *core.User
}

// NewSession creates a session manager over the given client.
func NewSession(api *Client, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{api: api, log: log}
}

// Start performs the one silent renewal attempt of application start. When
// the jar holds no refresh cookie the network round trip is skipped entirely.
// Any failure leaves the session logged out without surfacing an error.
func (s *Session) Start(ctx context.Context) {
	if !s.api.HasRefreshCookie() {
		s.log.Debug("no refresh cookie, starting logged out")
		return
	}

	if _, err := s.api.RefreshAccessToken(ctx); err != nil {
		if !errors.Is(err, ErrNoSession) {
			s.log.Info("silent session renewal failed", "error", err)
		}
		return
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Info("failed to load profile after silent renewal", "error", err)
		return
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Login starts a session. A 401 from the server is normalized to
// ErrInvalidCredentials regardless of whether the email or the password was
// wrong; other failures are wrapped as-is.
func (s *Session) Login(ctx context.Context, email, password string) (*core.User, error) {
	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// Register creates an account and starts a session for it.
func (s *Session) Register(ctx context.Context, name, email, password string) (*core.User, error) {
	user, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return nil, errors.New(apiErr.Message)
		}
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// Logout ends the session. The network call is best-effort: a failure is
// logged and discarded, and local state is always cleared.
func (s *Session) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn("logout request failed", "error", err)
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// RefreshAccessToken explicitly renews the access token. On failure the local
// session state is cleared and the error propagates.
func (s *Session) RefreshAccessToken(ctx context.Context) (string, error) {
	token, err := s.api.RefreshAccessToken(ctx)
	if err != nil {
		s.mu.Lock()
		s.user = nil
		s.mu.Unlock()
		return "", err
	}
	return token, nil
}

// User returns the currently logged-in user, or nil when logged out.
func (s *Session) User() *core.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// LoggedIn reports whether a user is currently logged in.
func (s *Session) LoggedIn() bool {
	return s.User() != nil
}
