package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocumentsEveryRoute(t *testing.T) {
	_, app := newTestServer(t, testConfig())

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	for _, r := range app.GetRoutes(true) {
		if r.Method == http.MethodHead || !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		if strings.HasPrefix(r.Path, "/api/swagger") || strings.HasPrefix(r.Path, "/api/metrics") {
			continue
		}
		path := strings.TrimSuffix(strings.TrimPrefix(r.Path, "/api"), "/")
		path = strings.ReplaceAll(path, ":id", "{id}")

		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "route %s %s missing from swagger paths", r.Method, r.Path) {
			continue
		}
		_, ok = ops[strings.ToLower(r.Method)]
		assert.True(t, ok, "route %s %s missing from swagger operations", r.Method, r.Path)
	}
}
