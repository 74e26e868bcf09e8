package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arent-kient/api-key-dashboard/internal/database/testdb"
	"github.com/arent-kient/api-key-dashboard/internal/handlers"
	"github.com/arent-kient/api-key-dashboard/internal/keycodec"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/api_key"
)

func newServer(t *testing.T) (*httptest.Server, *api_key.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := api_key.NewService(testdb.Open(t), nil)
	h := handlers.NewAPIKeyHandler(svc)
	r := gin.New()
	keys := r.Group("/api/keys")
	keys.GET("", h.List)
	keys.POST("", h.Create)
	keys.GET("/export", h.Export)
	keys.GET("/:id", h.Get)
	keys.PATCH("/:id", h.Patch)
	keys.DELETE("/:id", h.Delete)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func run(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--base-url", baseURL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateListRenameDelete(t *testing.T) {
	srv, svc := newServer(t)

	out, err := run(t, srv.URL, "create", "--name", "CI", "--type", "production", "--limit", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "API key created successfully")

	keys, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	key := keys[0]
	require.NotNil(t, key.MonthlyLimit)
	assert.Equal(t, 100, *key.MonthlyLimit)

	out, err = run(t, srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "CI")
	assert.Contains(t, out, keycodec.Mask(key.Key))
	assert.NotContains(t, out, key.Key)

	out, err = run(t, srv.URL, "list", "--reveal", key.ID)
	require.NoError(t, err)
	assert.Contains(t, out, key.Key)

	out, err = run(t, srv.URL, "rename", key.ID, "Nightly")
	require.NoError(t, err)
	assert.Contains(t, out, "API key updated successfully")

	out, err = run(t, srv.URL, "get", key.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Nightly")

	out, err = run(t, srv.URL, "delete", key.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "API key deleted successfully")

	out, err = run(t, srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No API keys found")
}

func TestCreateDefaults(t *testing.T) {
	srv, svc := newServer(t)

	_, err := run(t, srv.URL, "create")
	require.NoError(t, err)

	keys, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, models.DefaultKeyName, keys[0].Name)
	assert.Equal(t, models.KeyTypeDev, keys[0].Type)
	assert.Nil(t, keys[0].MonthlyLimit)
}

func TestDeleteMissingKeyFails(t *testing.T) {
	srv, _ := newServer(t)

	_, err := run(t, srv.URL, "delete", "6f1b2b8e-0000-4000-8000-000000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete API key")
}

func TestListJSON(t *testing.T) {
	srv, _ := newServer(t)
	_, err := run(t, srv.URL, "create", "--name", "json")
	require.NoError(t, err)

	out, err := run(t, srv.URL, "list", "--json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["))
	assert.Contains(t, out, `"name": "json"`)
}

func TestExport(t *testing.T) {
	srv, _ := newServer(t)
	path := filepath.Join(t.TempDir(), "keys.xlsx")

	out, err := run(t, srv.URL, "export", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported API keys to")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestBaseURLFromEnvironment(t *testing.T) {
	srv, _ := newServer(t)
	t.Setenv("KEYCTL_BASE_URL", srv.URL)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No API keys found")
}
