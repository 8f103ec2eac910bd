// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render renders the admin pages and the related content inline.
// Full pages are wrapped in the base layout; HTMX requests get only the
// "content" block.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"relatedcontent/internal/admin"
	"relatedcontent/internal/middleware"
	"relatedcontent/internal/session"
	"relatedcontent/web"
)

//go:embed templates/admin/*.html templates/admin/edit_inline/*.html
var adminFS embed.FS

const (
	pagesDir  = "templates/admin"
	inlineDir = "templates/admin/edit_inline"
)

// PageData holds everything an admin page template receives.
type PageData struct {
	Title     string
	Section   string // active navigation entry
	Session   *session.Data
	CSRFToken string
	Nav       []admin.ModelAdmin
	Data      map[string]any
	Flashes   []Flash
}

// Flash is a one-time notification shown above the page content.
type Flash struct {
	Type    string // "success", "error"
	Message string
}

// ObjectView identifies the source object an inline is edited for.
type ObjectView struct {
	ID    uuid.UUID
	Title string
}

// InlineRow is the data of one rendered inline table row.
type InlineRow struct {
	FS  *admin.Formset
	Row *admin.Row
}

// Renderer executes the embedded admin templates.
type Renderer struct {
	pages   map[string]*template.Template
	inlines map[string]*template.Template // keyed by inline template path
	funcMap template.FuncMap
	site    *admin.Site
}

// mediaJS returns the scripts of media that are shipped in the static
// assets. Scripts missing from the build are skipped so the page does not
// request them.
func mediaJS(media admin.Media) []string {
	var out []string
	for _, js := range media.JS {
		if _, err := fs.Stat(web.StaticFS, path.Join("static", js)); err != nil {
			slog.Debug("form media not shipped", "script", js)
			continue
		}
		out = append(out, js)
	}
	return out
}

// standaloneTemplates render without the base layout.
var standaloneTemplates = map[string]bool{
	"login": true,
}

// New parses the embedded templates. The navigation lists the model
// admins registered on site.
func New(devMode bool, site *admin.Site) (*Renderer, error) {
	rn := &Renderer{
		pages:   make(map[string]*template.Template),
		inlines: make(map[string]*template.Template),
		site:    site,
	}
	rn.funcMap = template.FuncMap{
		"isDev": func() bool { return devMode },
		"activeClass": func(current, target string) string {
			if current == target {
				return "active"
			}
			return ""
		},
		"inlineRow": func(fs *admin.Formset, row *admin.Row) InlineRow {
			return InlineRow{FS: fs, Row: row}
		},
		"renderInline": rn.renderInline,
		"mediaJS":      mediaJS,
	}

	inlineFiles, err := fs.Glob(adminFS, inlineDir+"/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob inline templates: %w", err)
	}
	for _, file := range inlineFiles {
		name := path.Base(file)
		tmpl, err := template.New(name).Funcs(rn.funcMap).ParseFS(adminFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse inline template %s: %w", name, err)
		}
		rn.inlines[strings.TrimPrefix(file, "templates/")] = tmpl
	}

	entries, err := adminFS.ReadDir(pagesDir)
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		if standaloneTemplates[tmplName] {
			tmpl, err = template.New(name).Funcs(rn.funcMap).ParseFS(adminFS, pagesDir+"/"+name)
		} else {
			tmpl, err = template.New("base.html").Funcs(rn.funcMap).ParseFS(adminFS, pagesDir+"/base.html", pagesDir+"/"+name)
		}
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rn.pages[tmplName] = tmpl
	}

	return rn, nil
}

// HasInline reports whether an inline template is available at path.
func (rn *Renderer) HasInline(path string) bool {
	_, ok := rn.inlines[path]
	return ok
}

// Page renders a full admin page, or its "content" block for HTMX.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus is Page with an explicit status code.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.pages[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if rn.site != nil {
		data.Nav = rn.site.Registered()
	}

	execName := "base.html"
	switch {
	case standaloneTemplates[name]:
		execName = name + ".html"
	case isHTMX(r):
		execName = "content"
	}

	// Buffer so a failing template never leaves a half-written page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("render page failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error renders the error page with the given status.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message, detail string) {
	rn.PageStatus(w, r, status, "error", &PageData{
		Title: http.StatusText(status),
		Data: map[string]any{
			"Status":  status,
			"Message": message,
			"Detail":  detail,
		},
	})
}

// Inline writes the inline of fs using the inline's template.
func (rn *Renderer) Inline(w io.Writer, fs *admin.Formset) error {
	tmpl, ok := rn.inlines[fs.Inline.Template]
	if !ok {
		return fmt.Errorf("inline template %q not found", fs.Inline.Template)
	}
	return tmpl.ExecuteTemplate(w, path.Base(fs.Inline.Template), fs)
}

func (rn *Renderer) renderInline(fs *admin.Formset) (template.HTML, error) {
	var buf bytes.Buffer
	if err := rn.Inline(&buf, fs); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
