// Package render implements echo.Renderer over html/template. Every page
// receives an explicit Context value assembled from the request; templates
// never read shared mutable state.
package render

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/catalogworks/catalog/internal/api/middleware"
	"github.com/catalogworks/catalog/internal/core/domain"
)

// Context is the render payload handed to every template execution.
type Context struct {
	// Data is the page-specific payload.
	Data any
	// Session is the authenticated identity, nil for anonymous requests.
	Session *domain.Session
	// ActiveRoute marks the navigation entry for the current request.
	ActiveRoute string
	// ViewingCategory is the category filter of the current request.
	ViewingCategory string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
}

// New parses every page template from fsys.
func New(fsys fs.FS) (*Renderer, error) {
	t, err := template.New("").Funcs(funcMap()).ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render satisfies echo.Renderer. The page payload is wrapped in a Context
// populated from the request's own middleware values.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, Context{
		Data:            data,
		Session:         middleware.CurrentSession(c),
		ActiveRoute:     middleware.ActiveRouteValue(c),
		ViewingCategory: middleware.ViewingCategory(c),
	})
}

func funcMap() template.FuncMap {
	policy := bluemonday.UGCPolicy()
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		// safeHTML renders stored body text, stripping scripts and other
		// non-UGC markup.
		"safeHTML": func(s string) template.HTML {
			return template.HTML(policy.Sanitize(s))
		},
	}
}
