package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck/adapters/events"
	"github.com/taskdeck/taskdeck/adapters/hasher"
	"github.com/taskdeck/taskdeck/adapters/store"
	"github.com/taskdeck/taskdeck/adapters/tokenizer"
	"github.com/taskdeck/taskdeck/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer spins up the full router over a memory store with the given
// token lifetimes. Negative lifetimes mint already-expired tokens.
func newTestServer(t *testing.T, accessTTL, refreshTTL time.Duration) *httptest.Server {
	t.Helper()

	tk, err := tokenizer.NewJWTTokenizer(
		[]byte("test-access-secret"), []byte("test-refresh-secret"), accessTTL, refreshTTL,
	)
	require.NoError(t, err)

	memStore := store.NewMemoryStore()
	authService := service.NewAuthService(
		memStore, tk, hasher.NewBcryptHasherWithCost(bcrypt.MinCost), events.NewNopPublisher(), nil,
	)

	router := SetupRouter(
		authService,
		service.NewUserService(memStore),
		service.NewTaskService(memStore),
		Options{},
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// newBrowser returns an HTTP client with its own cookie jar, standing in for
// one browser session.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// call sends a JSON request and decodes the envelope.
func call(t *testing.T, client *http.Client, method, url, bearer string, body any) (int, testEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// doRaw sends a prepared request and decodes the envelope.
func doRaw(t *testing.T, client *http.Client, req *http.Request) (int, testEnvelope) {
	t.Helper()
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env testEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env testEnvelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}
