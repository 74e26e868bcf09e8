package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arent-kient/api-key-dashboard/internal/database/repository"
	"github.com/arent-kient/api-key-dashboard/internal/services/api_key"
	"github.com/arent-kient/api-key-dashboard/internal/services/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&api_key.ValidationError{Field: "name", Message: "is required"}, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", repository.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: key", repository.ErrDuplicateKey), http.StatusConflict},
		{fmt.Errorf("%w: dial", repository.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{auth.ErrAuthRequired, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errorStatus(tt.err), tt.err.Error())
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/keys", nil)

	respondError(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/dashboards/keys", nil)
	setFlash(c, FlashSuccess, "API key created successfully", false)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboards", nil)
	c.Request.AddCookie(cookies[0])

	flash := takeFlash(c, false)
	require.NotNil(t, flash)
	assert.Equal(t, Flash{Type: FlashSuccess, Message: "API key created successfully"}, *flash)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, flashCookie, cleared[0].Name)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestTakeFlashIgnoresGarbage(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboards", nil)
	c.Request.AddCookie(&http.Cookie{Name: flashCookie, Value: "not base64!"})

	assert.Nil(t, takeFlash(c, false))
}

func TestReturnPath(t *testing.T) {
	tests := map[string]string{
		"":            "/dashboards",
		"/playground": "/playground",
		"//evil.com":  "/dashboards",
		"https://x":   "/dashboards",
		"/\\evil.com": "/dashboards",
	}
	for in, want := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
		c.Request.PostForm = map[string][]string{"return": {in}}
		assert.Equal(t, want, returnPath(c, "/dashboards"), in)
	}
}
