package client_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arent-kient/api-key-dashboard/internal/client"
	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/database/testdb"
	"github.com/arent-kient/api-key-dashboard/internal/handlers"
	"github.com/arent-kient/api-key-dashboard/internal/keycodec"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/api_key"
	"github.com/arent-kient/api-key-dashboard/internal/services/auth"
	"github.com/arent-kient/api-key-dashboard/internal/services/keymanager"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := handlers.NewAPIKeyHandler(api_key.NewService(testdb.Open(t), nil))
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
	return srv
}

func TestClientCRUD(t *testing.T) {
	c := client.New(newServer(t).URL, "", time.Second)
	ctx := context.Background()

	limit := 500
	created, err := c.Create(ctx, models.CreateAPIKeyParams{Name: "CLI key", Type: "production", MonthlyLimit: &limit})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Key, keycodec.Prefix+"prod-"))
	require.NotNil(t, created.MonthlyLimit)
	assert.Equal(t, 500, *created.MonthlyLimit)

	keys, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Key, got.Key)

	patched, err := c.Patch(ctx, created.ID, map[string]interface{}{"name": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", patched.Name)

	require.NoError(t, c.Delete(ctx, created.ID))

	err = c.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "API key not found", apiErr.Message)
}

func TestClientRejectsUnknownType(t *testing.T) {
	c := client.New(newServer(t).URL, "", time.Second)

	_, err := c.Create(context.Background(), models.CreateAPIKeyParams{Name: "x", Type: "staging"})
	assert.ErrorIs(t, err, keycodec.ErrInvalidType)
}

func TestClientExport(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL, "", time.Second)
	_, err := c.Create(context.Background(), models.CreateAPIKeyParams{Name: "x", Type: "dev"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.Export(context.Background(), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"authentication required"}`))
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, "session-token", time.Second).List(context.Background())
	assert.Equal(t, "Bearer session-token", gotAuth)
	assert.ErrorIs(t, err, auth.ErrAuthRequired)
}

func TestClientDrivesKeyManager(t *testing.T) {
	m := keymanager.New(client.New(newServer(t).URL, "", time.Second))
	ctx := context.Background()

	result := m.Create(ctx, "My Key", "development", false, 0)
	require.True(t, result.Success, result.Error)

	snap := m.Snapshot()
	require.Len(t, snap.Keys, 1)
	key := snap.Keys[0]
	assert.Equal(t, models.KeyTypeDev, key.Type)
	assert.Nil(t, key.MonthlyLimit)
	assert.Equal(t, keycodec.Mask(key.Key), m.DisplayValue(key.Key, key.ID))

	require.True(t, m.Remove(ctx, key.ID).Success)
	require.True(t, m.Refresh(ctx).Success)
	assert.Empty(t, m.Snapshot().Keys)
}

func TestClientEscapesKeyID(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"API key not found"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL, "", time.Second)
	ctx := context.Background()
	id := "../export?x=1"

	_, err := c.Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = c.Patch(ctx, id, map[string]interface{}{"name": "n"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, c.Delete(ctx, id), repository.ErrNotFound)

	require.Len(t, paths, 3)
	for _, p := range paths {
		assert.Equal(t, "/api/keys/..%2Fexport%3Fx=1", p)
	}
}

func TestKeyManagerShowsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"name: is required"}`))
	}))
	defer srv.Close()

	m := keymanager.New(client.New(srv.URL, "", time.Second))
	result := m.Rename(context.Background(), "key-1", "")

	assert.False(t, result.Success)
	assert.Equal(t, "name: is required", result.Error)
}
