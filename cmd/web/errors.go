// cmd/web/errors.go
// This file contains all error-response helpers for the application.
// Keeping error helpers in a dedicated file makes them easy to find and extend.
package main

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
)

// Messages shown to the user when a store operation fails. The underlying
// error is only ever logged.
const (
	msgLoadFailed      = "Failed to load books."
	msgLoadBookFailed  = "Failed to load book."
	msgCreateFailed    = "Failed to create book."
	msgDuplicateISBN   = "Failed to create book. Please check that the ISBN is unique."
	msgUpdateFailed    = "Failed to update book."
	msgDeleteFailed    = "Failed to delete book."
	msgBookNotFound    = "Book not found."
	msgSomethingBroke  = "Something went wrong. Please try again later."
	msgPageNotFound    = "The requested page could not be found."
	msgRateLimited     = "Too many requests. Please slow down."
	msgInvalidFormData = "The submitted form could not be read."
)

// logError logs an internal error at ERROR level with the request method and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
	)
}

// errorResponse renders the error page with the given status code and message.
// It is the low-level building block used by all the specific error helpers below,
// and falls back to plain text if the error page itself cannot be rendered.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	td := app.newTemplateData(r)
	td.Status = status
	td.Message = message

	ts, ok := app.templateCache["error.tmpl"]
	if !ok {
		http.Error(w, message, status)
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", td); err != nil {
		app.logError(r, err)
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// operationFailedResponse logs err and shows message, which names the
// operation that failed but never the cause.
func (app *applicationDependencies) operationFailedResponse(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, status, message)
}

// serverErrorResponse logs an unexpected error and sends an opaque 500.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.operationFailedResponse(w, r, http.StatusInternalServerError, msgSomethingBroke, err)
}

// notFoundResponse sends a 404 Not Found error.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, msgPageNotFound)
}

// methodNotAllowedResponse sends a 405 Method Not Allowed error.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "The " + r.Method + " method is not supported for this resource."
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

// badRequestResponse sends a 400 Bad Request error.
func (app *applicationDependencies) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Debug("bad request", "error", err, "request_url", r.URL.String())
	app.errorResponse(w, r, http.StatusBadRequest, msgInvalidFormData)
}

// failedValidationResponse re-renders the book form with its field errors
// and a 422 Unprocessable Entity status.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, form bookForm) {
	td := app.newTemplateData(r)
	td.Form = form
	app.render(w, r, http.StatusUnprocessableEntity, "form.tmpl", td)
}

// rateLimitExceededResponse sends a 429 Too Many Requests error.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, msgRateLimited)
}

// csrfFailureResponse is installed as the gorilla/csrf error handler.
func (app *applicationDependencies) csrfFailureResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warn("csrf check failed", "request_url", r.URL.String(), "reason", csrf.FailureReason(r))
	app.errorResponse(w, r, http.StatusForbidden, "The form has expired. Please reload the page and try again.")
}
