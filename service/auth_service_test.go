package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck/adapters/hasher"
	"github.com/taskdeck/taskdeck/adapters/store"
	"github.com/taskdeck/taskdeck/adapters/tokenizer"
	"github.com/taskdeck/taskdeck/core"
	"github.com/taskdeck/taskdeck/ports"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) record(event string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishRegistered(ctx context.Context, userID, email string) error {
	return p.record("registered")
}
func (p *recordingPublisher) PublishLoggedIn(ctx context.Context, userID string) error {
	return p.record("logged_in")
}
func (p *recordingPublisher) PublishLoggedOut(ctx context.Context, userID string) error {
	return p.record("logged_out")
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func newTestTokenizer(t *testing.T, accessTTL, refreshTTL time.Duration) ports.Tokenizer {
	t.Helper()
	tk, err := tokenizer.NewJWTTokenizer(
		[]byte("access-secret"), []byte("refresh-secret"), accessTTL, refreshTTL,
	)
	require.NoError(t, err)
	return tk
}

func newTestAuthService(t *testing.T) (*AuthService, *recordingPublisher) {
	t.Helper()
	publisher := &recordingPublisher{}
	svc := NewAuthService(
		store.NewMemoryStore(),
		newTestTokenizer(t, time.Minute, time.Hour),
		hasher.NewBcryptHasherWithCost(bcrypt.MinCost),
		publisher,
		nil,
	)
	return svc, publisher
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, publisher := newTestAuthService(t)

	user, creds, err := svc.Register(ctx, "Ada", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, creds.AccessToken)
	assert.NotEmpty(t, creds.RefreshToken)

	loggedIn, loginCreds, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginCreds.AccessToken)

	// The access token asserts the registered identity
	session, err := svc.ValidateAccessToken(ctx, loginCreds.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)

	assert.Equal(t, []string{"registered", "logged_in"}, publisher.published())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	_, _, err := svc.Register(ctx, "Ada", "a@x.com", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Eve", "a@x.com", "secret2")
	assert.ErrorIs(t, err, core.ErrDuplicateEmail)

	// The first identity is untouched: the original password still works
	_, _, err = svc.Login(ctx, "a@x.com", "secret1")
	assert.NoError(t, err)
	_, _, err = svc.Login(ctx, "a@x.com", "secret2")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	_, _, err := svc.Register(ctx, "Ada", "a@x.com", "secret1")
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(ctx, "nobody@x.com", "secret1")
	_, _, wrongErr := svc.Login(ctx, "a@x.com", "wrong-password")

	// Unknown email and wrong password must yield the identical error
	assert.ErrorIs(t, unknownErr, core.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, core.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	user, creds, err := svc.Register(ctx, "Ada", "a@x.com", "secret1")
	require.NoError(t, err)

	accessToken, err := svc.Refresh(ctx, creds.RefreshToken)
	require.NoError(t, err)

	// The new access token carries the original identity
	session, err := svc.ValidateAccessToken(ctx, accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)

	// Refresh is stateless: the same refresh token keeps working
	_, err = svc.Refresh(ctx, creds.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	_, err := svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, core.ErrInvalidRefreshToken)

	// An expired refresh token collapses into the same error
	expired := NewAuthService(
		store.NewMemoryStore(),
		newTestTokenizer(t, time.Minute, -time.Minute),
		hasher.NewBcryptHasherWithCost(bcrypt.MinCost),
		&recordingPublisher{},
		nil,
	)
	_, creds, err := expired.Register(ctx, "Ada", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, creds.RefreshToken)
	assert.ErrorIs(t, err, core.ErrInvalidRefreshToken)
}

func TestLogoutIsBestEffort(t *testing.T) {
	ctx := context.Background()
	svc, publisher := newTestAuthService(t)

	_, creds, err := svc.Register(ctx, "Ada", "a@x.com", "secret1")
	require.NoError(t, err)

	// Valid token publishes an event; garbage and empty tokens are silent no-ops
	svc.Logout(ctx, creds.RefreshToken)
	svc.Logout(ctx, "garbage")
	svc.Logout(ctx, "")

	assert.Equal(t, []string{"registered", "logged_out"}, publisher.published())
}
