package web

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"home.html", "signin.html", "signout.html", "error.html", "dashboards.html", "playground.html", "protected.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestErrorPageRenders(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "error.html", map[string]interface{}{
		"Title":        "Authentication Error",
		"ErrorMessage": "<b>bad</b>",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "&lt;b&gt;bad&lt;/b&gt;")
}

func TestPercent(t *testing.T) {
	percent := Funcs()["percent"].(func(int, int) int)
	assert.Equal(t, 0, percent(10, 0))
	assert.Equal(t, 25, percent(250, 1000))
	assert.Equal(t, 100, percent(5000, 1000))
}

func TestDate(t *testing.T) {
	date := Funcs()["date"].(func(time.Time) string)
	assert.Equal(t, "-", date(time.Time{}))
	assert.Equal(t, "Mar 4, 2025", date(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
}

func TestStaticAssets(t *testing.T) {
	f, err := Static().Open("app.js")
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(body), "EventSource")
}
