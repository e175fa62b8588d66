// Package web renders the single-page viewer.
package web

import (
	_ "embed"
	"html/template"
	"io"

	"logviewer/internal/views"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// Page is everything the page template needs. Views carries only the
// page-safe projection; commands are fetched after login via view_info.
type Page struct {
	Nonce           string
	DefaultInterval int
	Views           []views.PublicView
}

// Render writes the HTML document.
func Render(w io.Writer, p Page) error {
	return indexTmpl.Execute(w, p)
}
