package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"lotusnews/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	_, app := newTestServer(t, testConfig())
	token := tokenFor(t, uuid.New())
	post := createPost(t, app, token, "discuss this")
	path := "/api/posts/" + post.ID.String() + "/comments"

	status, body := doJSON(t, app, http.MethodGet, path, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = doJSON(t, app, http.MethodPost, path, token, map[string]any{"body": "top level"})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var root models.Comment
	require.NoError(t, json.Unmarshal(body, &root))

	status, body = doJSON(t, app, http.MethodPost, path, token, map[string]any{"body": "a reply", "parent_id": root.ID})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, _ = doJSON(t, app, http.MethodPost, path, token, map[string]any{"body": "lost", "parent_id": uuid.New()})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodGet, path, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var forest []models.CommentNode
	require.NoError(t, json.Unmarshal(body, &forest))
	require.Len(t, forest, 1)
	assert.Equal(t, root.ID, forest[0].ID)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "a reply", forest[0].Children[0].Body)
	assert.Empty(t, forest[0].Children[0].Children)
}
