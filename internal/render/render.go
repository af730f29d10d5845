// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public
// storefront pages. Every page template is paired with the shared base
// layout at parse time.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"bakehouse/internal/models"
)

//go:embed templates/*.html
var pageFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title string         // Page title for <title> tag
	Data  map[string]any // Page-specific data
}

// Renderer handles template parsing and execution for storefront pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem, each paired with the base layout.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			// money formats an optional dollar amount, blank when unknown.
			"money": func(v *float64) string {
				if v == nil {
					return ""
				}
				return fmt.Sprintf("$%.2f", *v)
			},
			"year": func() int {
				return time.Now().Year()
			},
			// active reports whether a menu item should be shown.
			"active": func(it models.MenuItem) bool {
				return it.IsActive()
			},
		},
	}

	entries, err := pageFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}

		tmplName := name[:len(name)-len(filepath.Ext(name))]
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			pageFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a full page inside the base layout.
func (rn *Renderer) Page(w http.ResponseWriter, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
