// Package view renders the HTML fragments returned to HTMX requests.
// Full-page navigation is handled by redirects; only the partial-update
// fragments live here.
package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.ParseFS(files, "templates/*.html"))

// Render executes the named fragment template into w.
func Render(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}
