package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

// AuthService handles session business logic: starting sessions (register,
// login), renewing them (refresh) and ending them (logout). Sessions are
// purely claims-based; the service keeps no session state of its own.
type AuthService struct {
	users     ports.UserStore
	tokenizer ports.Tokenizer
	hasher    ports.PasswordHasher
	events    ports.EventPublisher
	log       *slog.Logger
}

// Credentials is the pair of tokens minted when a session starts.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users ports.UserStore,
	tokenizer ports.Tokenizer,
	hasher ports.PasswordHasher,
	events ports.EventPublisher,
	log *slog.Logger,
) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{
		users:     users,
		tokenizer: tokenizer,
		hasher:    hasher,
		events:    events,
		log:       log,
	}
}

// Register creates a new user and starts a session for it. Returns
// core.ErrDuplicateEmail when the email is already registered.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*core.User, *Credentials, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &core.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	creds, err := s.issueCredentials(user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.events.PublishRegistered(ctx, user.ID, user.Email); err != nil {
		s.log.Warn("failed to publish registration event", "error", err, "user_id", user.ID)
	}

	return user, creds, nil
}

// Login verifies the credentials and starts a session. Unknown email and
// wrong password produce the identical core.ErrInvalidCredentials so callers
// cannot probe for account existence.
func (s *AuthService) Login(ctx context.Context, email, password string) (*core.User, *Credentials, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, nil, core.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, nil, core.ErrInvalidCredentials
	}

	creds, err := s.issueCredentials(user.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.events.PublishLoggedIn(ctx, user.ID); err != nil {
		s.log.Warn("failed to publish login event", "error", err, "user_id", user.ID)
	}

	return user, creds, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token is not rotated and no state is touched: the same token stays valid
// until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	session, err := s.tokenizer.VerifyRefreshToken(refreshToken)
	if err != nil {
		// Expired and malformed collapse into one outcome for the caller
		return "", core.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokenizer.IssueAccessToken(session.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return accessToken, nil
}

// Logout ends a session. It always succeeds: there is no revocation list, so
// the only server-side effect is a best-effort logout event when the refresh
// token still parses.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	session, err := s.tokenizer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return
	}
	if err := s.events.PublishLoggedOut(ctx, session.UserID); err != nil {
		s.log.Warn("failed to publish logout event", "error", err, "user_id", session.UserID)
	}
}

// ValidateAccessToken checks an access token and returns the session it
// asserts. Used by the request gate on every protected call.
func (s *AuthService) ValidateAccessToken(ctx context.Context, accessToken string) (*core.Session, error) {
	return s.tokenizer.VerifyAccessToken(accessToken)
}

func (s *AuthService) issueCredentials(userID string) (*Credentials, error) {
	accessToken, err := s.tokenizer.IssueAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, err := s.tokenizer.IssueRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &Credentials{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
