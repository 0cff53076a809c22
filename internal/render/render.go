// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the salon form. It
// supports full-page and HTMX partial rendering, automatically detecting
// the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"salonsite/internal/middleware"
	"salonsite/internal/models"
)

//go:embed templates/ui/*.html
var uiFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string          // Page title for <title> tag
	Session   *models.Session // Current visitor session
	CSRFToken string          // CSRF token for forms and HTMX headers
	Data      map[string]any  // Page-specific data
	Flashes   []models.Flash  // One-time notification messages
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem. Each page template is paired with the base layout. devMode
// shows a development banner in the layout.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"isDev": func() bool {
				return devMode
			},
			// field returns the submitted value of a form field.
			"field": func(v any, key string) string {
				values, _ := v.(url.Values)
				return values.Get(key)
			},
			// missing reports whether a required field was left empty.
			"missing": func(m any, key string) bool {
				set, _ := m.(map[string]bool)
				return set[key]
			},
			"join": strings.Join,
			"flashClass": func(kind string) string {
				switch kind {
				case "success":
					return "flash flash-success"
				case "error":
					return "flash flash-error"
				case "warning":
					return "flash flash-warning"
				default:
					return "flash flash-info"
				}
			},
			"safeURL": func(s string) template.URL {
				// Only thumbnails produced by intake reach this helper.
				if strings.HasPrefix(s, "data:image/") {
					return template.URL(s)
				}
				return ""
			},
		},
	}

	pages, err := fs.Glob(uiFS, "templates/ui/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: glob templates: %w", err)
	}

	for _, page := range pages {
		name := path.Base(page)
		if name == "base.html" {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			uiFS, "templates/ui/base.html", "templates/ui/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("render: parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a full page with status 200. See PageStatus.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus renders a full page or an HTMX partial, depending on the
// request headers, with the given status. For HTMX requests only the
// "content" block is sent. Output is buffered so a template error never
// leaves a half-written page.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	execName := "base.html"
	if IsHTMX(r) {
		execName = "content"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write page", "template", name, "error", err)
	}
}

// IsHTMX returns true if the request was made by HTMX (has HX-Request header).
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
