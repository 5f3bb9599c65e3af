// Package web renders the site's HTML pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/robinblocks/site/internal/web/signup"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageIndex = "index.html"
	PageGuide = "guide.html"
)

type Pages struct {
	tmpl *template.Template
}

func NewPages() (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Pages{tmpl: tmpl}, nil
}

// IndexData feeds the landing page.
type IndexData struct {
	Form *signup.Form
}

func (p *Pages) Render(w io.Writer, page string, data any) error {
	return p.tmpl.ExecuteTemplate(w, page, data)
}
