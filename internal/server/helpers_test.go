package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lotusnews/internal/config"
	"lotusnews/internal/middleware"
	"lotusnews/internal/models"
	"lotusnews/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "server-test-secret-0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		FeatureFlags:       "live_feed=on",
		DefaultPageSize:    25,
		FeedBufferSize:     8,
		FeedMaxSubscribers: 10,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *fiber.App) {
	t.Helper()
	s := NewServerWithStore(cfg, repository.NewMemoryStore().Store(), nil)
	t.Cleanup(func() { s.shutdownFn() })
	return s, s.NewApp()
}

func tokenFor(t *testing.T, id uuid.UUID) string {
	t.Helper()
	token, err := middleware.IssueToken(testSecret, id, time.Now())
	require.NoError(t, err)
	return token
}

// doJSON sends body as JSON and returns the status and raw response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func createPost(t *testing.T, app *fiber.App, token, title string) models.Post {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title": title,
		"body":  "some text for " + title,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var post models.Post
	require.NoError(t, json.Unmarshal(body, &post))
	return post
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Code
}
