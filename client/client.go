// Package client is the Go API client for a taskdeck server. It keeps the
// access token only in process memory and transparently renews it through the
// refresh cookie: when a protected call fails with 401, a single shared
// renewal runs and every request blocked on it is replayed with the new token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"

	"github.com/taskdeck/taskdeck/core"
)

const (
	registerPath = "/auth/register"
	loginPath    = "/auth/login"
	refreshPath  = "/auth/refresh"
	logoutPath   = "/auth/logout"
	mePath       = "/users/me"
	tasksPath    = "/tasks"
)

const refreshCookieName = "refreshToken"

// Client talks to a taskdeck server. It is safe for concurrent use; the
// access token, the renewal flag and the waiter queue are guarded by one
// mutex, and at most one renewal is ever in flight.
type Client struct {
	baseURL *url.URL
	httpc   *http.Client
	log     *slog.Logger

	// onSessionExpired fires once per failed renewal: the session is
	// unrecoverable and the application should return to its login entry.
	onSessionExpired func()

	mu          sync.Mutex
	accessToken string
	refreshing  bool
	waiters     []*renewWaiter
}

// renewWaiter is a request parked while a renewal is in flight.
type renewWaiter struct {
	err   error         // renewal outcome, set before ready closes
	ready chan struct{} // closed when the renewal outcome is known
	done  chan struct{} // closed by the waiter once its replay finished
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// installed when the given client has none, since the refresh cookie lives
// in the jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// WithLogger sets the logger used for silent-failure paths.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithSessionExpiredHandler sets the terminal callback invoked when a renewal
// fails and the session is considered unrecoverable.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		baseURL: u,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpc == nil {
		c.httpc = &http.Client{}
	}
	if c.httpc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpc.Jar = jar
	}

	return c, nil
}

// AccessToken returns the access token currently held in memory, empty when
// logged out.
func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// HasRefreshCookie reports whether the cookie jar holds a refresh cookie for
// the server. Checking it avoids a guaranteed-401 round trip on silent start.
func (c *Client) HasRefreshCookie() bool {
	for _, cookie := range c.httpc.Jar.Cookies(c.baseURL) {
		if cookie.Name == refreshCookieName && cookie.Value != "" {
			return true
		}
	}
	return false
}

func (c *Client) setAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// envelope is the server's response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// send performs one HTTP exchange. The bearer header carries the explicit
// token when given, else whatever token is currently held; no header is
// attached when neither exists.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, token string) (*envelope, int, error) {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token == "" {
		token = c.AccessToken()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// Non-JSON bodies still map onto the envelope by status
		env = envelope{Success: resp.StatusCode < 300}
	}
	return &env, resp.StatusCode, nil
}

// doPublic performs a session-endpoint call. No renewal is attempted: a 401
// here means the credentials themselves were rejected.
func (c *Client) doPublic(ctx context.Context, method, path string, body, out any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}
	env, status, err := c.send(ctx, method, path, nil, payload, "")
	if err != nil {
		return err
	}
	return evaluate(env, status, out)
}

// doProtected performs a resource call with the renewal protocol: a 401 once
// triggers (or joins) the shared renewal, after which the request is replayed
// exactly once with the new token.
func (c *Client) doProtected(ctx context.Context, method, path string, query url.Values, body, out any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return err
	}

	env, status, err := c.send(ctx, method, path, query, payload, "")
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized {
		return evaluate(env, status, out)
	}

	// One retry per logical request
	token, finish, err := c.awaitRenewal(ctx)
	if err != nil {
		return err
	}

	env, status, err = c.send(ctx, method, path, query, payload, token)
	if finish != nil {
		finish()
	}
	if err != nil {
		return err
	}
	return evaluate(env, status, out)
}

// awaitRenewal coordinates the single-flight renewal. The first caller after
// a 401 becomes the leader: it performs the refresh call, stores the token,
// then releases the parked waiters in the order their failures arrived, each
// completing its replay before the next starts. The leader's own replay runs
// after the returned finish func is nil — last, matching the failure order.
// Waiters receive the token and a finish func to call after their replay.
func (c *Client) awaitRenewal(ctx context.Context) (string, func(), error) {
	c.mu.Lock()
	if c.refreshing {
		w := &renewWaiter{
			ready: make(chan struct{}),
			done:  make(chan struct{}),
		}
		c.waiters = append(c.waiters, w)
		c.mu.Unlock()

		select {
		case <-w.ready:
		case <-ctx.Done():
			// Keep the FIFO handoff moving even though this request gave up
			go func() {
				<-w.ready
				close(w.done)
			}()
			return "", nil, ctx.Err()
		}

		if w.err != nil {
			close(w.done)
			return "", nil, w.err
		}

		c.mu.Lock()
		token := c.accessToken
		c.mu.Unlock()
		return token, func() { close(w.done) }, nil
	}

	c.refreshing = true
	c.mu.Unlock()

	token, refreshErr := c.refresh(ctx)

	c.mu.Lock()
	if refreshErr == nil {
		c.accessToken = token
	} else {
		c.accessToken = ""
	}
	c.refreshing = false
	queue := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	if refreshErr != nil {
		// Reject everything that coalesced onto this renewal
		for _, w := range queue {
			w.err = refreshErr
			close(w.ready)
		}
		c.log.Warn("session renewal failed", "error", refreshErr)
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return "", nil, refreshErr
	}

	// Replay queued requests in arrival order, one at a time
	for _, w := range queue {
		close(w.ready)
		<-w.done
	}
	return token, nil, nil
}

// refresh calls the refresh endpoint. A 401 from the endpoint itself means
// the server holds no session for us, which is ErrNoSession rather than a
// transport failure.
func (c *Client) refresh(ctx context.Context) (string, error) {
	env, status, err := c.send(ctx, http.MethodPost, refreshPath, nil, nil, "")
	if err != nil {
		return "", err
	}
	if status == http.StatusUnauthorized {
		return "", ErrNoSession
	}
	if status >= 300 {
		return "", &APIError{Status: status, Message: env.Message}
	}

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AccessToken == "" {
		return "", errors.New("no access token in refresh response")
	}
	return data.AccessToken, nil
}

// RefreshAccessToken explicitly renews the access token through the refresh
// cookie and stores it in memory.
func (c *Client) RefreshAccessToken(ctx context.Context) (string, error) {
	token, err := c.refresh(ctx)
	if err != nil {
		c.setAccessToken("")
		return "", err
	}
	c.setAccessToken(token)
	return token, nil
}

type authData struct {
	User        core.User `json:"user"`
	AccessToken string    `json:"accessToken"`
}

// Register creates an account and starts a session; the returned access token
// is stored in memory and the refresh cookie lands in the jar.
func (c *Client) Register(ctx context.Context, name, email, password string) (*core.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var data authData
	if err := c.doPublic(ctx, http.MethodPost, registerPath, body, &data); err != nil {
		return nil, err
	}
	c.setAccessToken(data.AccessToken)
	return &data.User, nil
}

// Login starts a session for an existing account.
func (c *Client) Login(ctx context.Context, email, password string) (*core.User, error) {
	body := map[string]string{"email": email, "password": password}
	var data authData
	if err := c.doPublic(ctx, http.MethodPost, loginPath, body, &data); err != nil {
		return nil, err
	}
	c.setAccessToken(data.AccessToken)
	return &data.User, nil
}

// Logout ends the session on the server. The in-memory token is cleared even
// when the network call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doPublic(ctx, http.MethodPost, logoutPath, nil, nil)
	c.setAccessToken("")
	return err
}

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (*core.User, error) {
	var data struct {
		User core.User `json:"user"`
	}
	if err := c.doProtected(ctx, http.MethodGet, mePath, nil, nil, &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// TaskListOptions narrow a task listing.
type TaskListOptions struct {
	Search    string
	Priority  core.Priority
	Completed *bool
}

// TaskDraft carries the writable fields of a task.
type TaskDraft struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Completed   bool          `json:"completed"`
	Priority    core.Priority `json:"priority,omitempty"`
}

// Tasks lists the user's tasks, newest first.
func (c *Client) Tasks(ctx context.Context, opts TaskListOptions) ([]core.Task, error) {
	query := url.Values{}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Priority != "" {
		query.Set("priority", string(opts.Priority))
	}
	if opts.Completed != nil {
		query.Set("completed", strconv.FormatBool(*opts.Completed))
	}

	var data struct {
		Tasks []core.Task `json:"tasks"`
	}
	if err := c.doProtected(ctx, http.MethodGet, tasksPath, query, nil, &data); err != nil {
		return nil, err
	}
	return data.Tasks, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (*core.Task, error) {
	var data struct {
		Task core.Task `json:"task"`
	}
	if err := c.doProtected(ctx, http.MethodPost, tasksPath, nil, draft, &data); err != nil {
		return nil, err
	}
	return &data.Task, nil
}

// UpdateTask overwrites a task's writable fields.
func (c *Client) UpdateTask(ctx context.Context, id string, draft TaskDraft) (*core.Task, error) {
	var data struct {
		Task core.Task `json:"task"`
	}
	if err := c.doProtected(ctx, http.MethodPut, tasksPath+"/"+id, nil, draft, &data); err != nil {
		return nil, err
	}
	return &data.Task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.doProtected(ctx, http.MethodDelete, tasksPath+"/"+id, nil, nil, nil)
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return payload, nil
}

func evaluate(env *envelope, status int, out any) error {
	if status >= 300 {
		return &APIError{Status: status, Message: env.Message}
	}
	if out == nil || env.Data == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
