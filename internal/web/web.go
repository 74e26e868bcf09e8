// Package web embeds the dashboard templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template with the shared helpers
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static serves the files under static/
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Funcs are the helpers available to page templates
func Funcs() template.FuncMap {
	return template.FuncMap{
		"percent": func(used, limit int) int {
			if limit <= 0 {
				return 0
			}
			p := (used*100 + limit/2) / limit
			if p > 100 {
				return 100
			}
			return p
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("Jan 2, 2006")
		},
		"deref": func(v *int) int {
			if v == nil {
				return 0
			}
			return *v
		},
	}
}
