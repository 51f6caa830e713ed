// cmd/web/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/aoideee/booklog/internal/data"
)

// envelope is the top-level JSON wrapper type used for JSON responses.
type envelope map[string]any

// readIDParam extracts and validates the ":id" URL parameter added by httprouter.
// Returns an error if the value is missing, non-numeric, or less than 1.
func (app *applicationDependencies) readIDParam(r *http.Request) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

// readString reads a string query parameter from qs, returning defaultValue
// if the key is absent or empty.
func (app *applicationDependencies) readString(qs url.Values, key, defaultValue string) string {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	return s
}

// readBookInput parses the submitted book form. Values are kept as strings;
// coercion happens after validation. The body size limit is applied by
// methodOverride, and a form it already parsed is not parsed again.
func (app *applicationDependencies) readBookInput(r *http.Request) (data.BookInput, error) {
	if err := r.ParseForm(); err != nil {
		return data.BookInput{}, err
	}

	return data.BookInput{
		Title:    r.PostForm.Get("title"),
		Author:   r.PostForm.Get("author"),
		Rating:   r.PostForm.Get("rating"),
		Notes:    r.PostForm.Get("notes"),
		DateRead: r.PostForm.Get("date_read"),
		ISBN:     r.PostForm.Get("isbn"),
	}, nil
}

// render executes the named page into a buffer first, so a template error
// turns into a clean 500 instead of a half-written page.
func (app *applicationDependencies) render(w http.ResponseWriter, r *http.Request, status int, page string, td templateData) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.serverErrorResponse(w, r, fmt.Errorf("the template %s does not exist", page))
		return
	}

	buf := new(bytes.Buffer)

	err := ts.ExecuteTemplate(buf, "base", td)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirectToList sends the browser back to the book list after a write.
// 303 makes the browser follow up with a GET whatever the original method was.
func (app *applicationDependencies) redirectToList(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/books", http.StatusSeeOther)
}

// writeJSON marshals data to indented JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// streams the body to the client.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, body envelope, headers http.Header) error {
	js, err := json.MarshalIndent(body, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}
