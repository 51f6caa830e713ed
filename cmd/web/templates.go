// cmd/web/templates.go
// This file holds the data passed to templates, the template functions,
// and the cache of parsed pages.
package main

import (
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"github.com/aoideee/booklog/internal/data"
	"github.com/aoideee/booklog/ui"
)

// bookForm is the create/edit form: the raw input plus per-field errors.
type bookForm struct {
	data.BookInput
	BookID      int64             // Zero on the create form
	Action      string            // URL the form posts to
	FieldErrors map[string]string // Keyed by form field name
}

// templateData is the single context type every page is rendered with.
type templateData struct {
	CurrentYear int
	Books       []*data.Book
	Filters     data.Filters
	Form        bookForm
	Status      int
	Message     string
	CSRFField   template.HTML
}

// sortURL links to the list sorted by column. Choosing the current column
// again flips the direction; a new column starts ascending.
func sortURL(f data.Filters, column string) string {
	direction := "ASC"
	if f.Sort == column && f.Direction == "ASC" {
		direction = "DESC"
	}
	return "/books?" + url.Values{"sort": {column}, "direction": {direction}}.Encode()
}

func sortIndicator(f data.Filters, column string) string {
	if f.Sort != column {
		return ""
	}
	if f.Direction == "ASC" {
		return " ↑"
	}
	return " ↓"
}

// stars renders a 0-5 rating as filled and empty stars.
func stars(n int) string {
	n = max(0, min(n, 5))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func humanize(column string) string {
	s := strings.ReplaceAll(column, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

var functions = template.FuncMap{
	"sortURL":       sortURL,
	"sortIndicator": sortIndicator,
	"sortColumns":   func() []string { return data.BookSortSafeList },
	"stars":         stars,
	"humanize":      humanize,
	"statusText":    http.StatusText,
}

// newTemplateCache parses every page under html/pages together with the base
// layout, keyed by the page's file name (e.g. "list.tmpl").
func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(ui.Files, "html/pages/*.tmpl")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		ts, err := template.New(name).Funcs(functions).ParseFS(ui.Files, "html/base.tmpl", page)
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}

func (app *applicationDependencies) newTemplateData(r *http.Request) templateData {
	return templateData{
		CurrentYear: time.Now().Year(),
		CSRFField:   csrf.TemplateField(r),
	}
}
