package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

//go:embed templates
var templateFS embed.FS

// Data is the value passed to a page template.
type Data map[string]any

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	logger *gecho.Logger
	pages  map[string]*template.Template
}

func NewRenderer(logger *gecho.Logger) (*Renderer, error) {
	base, err := template.New("base").Funcs(funcMap()).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout templates: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		if _, err := page.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}

	return &Renderer{logger: logger, pages: pages}, nil
}

// Render writes the page with the given status. The page is buffered first so a
// template error never produces half a document.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data Data) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("Unknown page template", gecho.Field("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.logger.Error("Failed to render page", gecho.Field("page", page), gecho.Field("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the error page.
func (rd *Renderer) Error(w http.ResponseWriter, status int, message string) {
	rd.Render(w, status, "error", Data{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return "€ " + d.StringFixed(2)
		},
		"amount": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"datetime": func(t time.Time) string {
			return t.Local().Format("02-01-2006 15:04")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"derefID": func(id *int64) string {
			if id == nil {
				return ""
			}
			return fmt.Sprintf("%d", *id)
		},
	}
}
