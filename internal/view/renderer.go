// Package view renders the site's HTML pages. Every page template is parsed
// together with the shared layout and partials.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/session"
)

//go:embed templates
var templateFS embed.FS

// DisplayTimeLayout is how show times are printed.
const DisplayTimeLayout = "Monday January 2, 2006 3:04PM"

// Page is what every template receives. Data holds the handler's
// page-specific value.
type Page struct {
	Flashes   []session.Flash
	CSRFToken string
	Data      any
}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages    map[string]*template.Template
	sessions *session.Store
	csrfKey  string
}

// NewRenderer parses all pages. sessions may be nil, in which case no
// flashes are shown. csrfKey names the echo context value holding the
// form token.
func NewRenderer(sessions *session.Store, csrfKey string) (*Renderer, error) {
	funcs := template.FuncMap{
		"datetime": func(t time.Time) string { return t.UTC().Format(DisplayTimeLayout) },
		"join":     strings.Join,
	}
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: map[string]*template.Template{}, sessions: sessions, csrfKey: csrfKey}
	err = fs.WalkDir(templateFS, "templates/pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		t, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := t.ParseFS(templateFS, p); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		r.pages[strings.TrimPrefix(p, "templates/pages/")] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render executes page name (e.g. "venues/show.html") inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	p := Page{Data: data}
	if c != nil {
		if r.sessions != nil {
			p.Flashes = r.sessions.Flashes(c)
		}
		if tok, ok := c.Get(r.csrfKey).(string); ok {
			p.CSRFToken = tok
		}
	}
	return t.ExecuteTemplate(w, "layout", p)
}
