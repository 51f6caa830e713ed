// cmd/web/handlers.go
// This file contains all HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger, templates and database models.
package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aoideee/booklog/internal/data"
	"github.com/aoideee/booklog/internal/validator"
)

// homeHandler handles GET /. The book list is the home page.
func (app *applicationDependencies) homeHandler(w http.ResponseWriter, r *http.Request) {
	app.redirectToList(w, r)
}

// healthcheckHandler handles GET /healthz.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	body := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.environment,
			"version":     appVersion,
		},
	}

	err := app.writeJSON(w, http.StatusOK, body, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /books?sort=&direction=.
// Unknown sort columns and directions silently fall back to the defaults.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	filters := data.NewFilters(
		app.readString(qs, "sort", data.DefaultSortColumn),
		app.readString(qs, "direction", data.DefaultSortDirection),
	)

	books, err := app.models.Books.GetAll(r.Context(), filters)
	if err != nil {
		app.operationFailedResponse(w, r, http.StatusInternalServerError, msgLoadFailed, err)
		return
	}

	td := app.newTemplateData(r)
	td.Books = books
	td.Filters = filters
	app.render(w, r, http.StatusOK, "list.tmpl", td)
}

// newBookFormHandler handles GET /books/new.
func (app *applicationDependencies) newBookFormHandler(w http.ResponseWriter, r *http.Request) {
	td := app.newTemplateData(r)
	td.Form = bookForm{Action: "/books"}
	app.render(w, r, http.StatusOK, "form.tmpl", td)
}

// createBookHandler handles POST /books.
// A valid form is inserted and the browser is sent back to the list; an
// invalid one is shown again with its errors.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	input, err := app.readBookInput(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateBookInput(v, input); !v.Valid() {
		app.failedValidationResponse(w, r, bookForm{
			BookInput:   input,
			Action:      "/books",
			FieldErrors: v.Errors,
		})
		return
	}

	book := &data.Book{}
	input.Apply(book)

	err = app.models.Books.Insert(r.Context(), book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateISBN):
			app.operationFailedResponse(w, r, http.StatusConflict, msgDuplicateISBN, err)
		default:
			app.operationFailedResponse(w, r, http.StatusInternalServerError, msgCreateFailed, err)
		}
		return
	}

	app.logger.Info("book created", "id", book.ID, "isbn", book.ISBN)
	app.redirectToList(w, r)
}

// editBookFormHandler handles GET /books/edit/:id.
// A missing book is a 404; a failing store is a 500.
func (app *applicationDependencies) editBookFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.errorResponse(w, r, http.StatusNotFound, msgBookNotFound)
		return
	}

	book, err := app.models.Books.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusNotFound, msgBookNotFound)
		default:
			app.operationFailedResponse(w, r, http.StatusInternalServerError, msgLoadBookFailed, err)
		}
		return
	}

	td := app.newTemplateData(r)
	td.Form = bookForm{
		BookInput: data.NewBookInput(book),
		BookID:    book.ID,
		Action:    bookURL(book.ID),
	}
	app.render(w, r, http.StatusOK, "form.tmpl", td)
}

// updateBookHandler handles PUT and PATCH /books/:id.
// Every mutable field is replaced by the submitted value, including empty ones.
// An id with no matching book updates nothing and still redirects.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.errorResponse(w, r, http.StatusNotFound, msgBookNotFound)
		return
	}

	input, err := app.readBookInput(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateBookInput(v, input); !v.Valid() {
		app.failedValidationResponse(w, r, bookForm{
			BookInput:   input,
			BookID:      id,
			Action:      bookURL(id),
			FieldErrors: v.Errors,
		})
		return
	}

	book := &data.Book{ID: id}
	input.Apply(book)

	err = app.models.Books.Update(r.Context(), book)
	if err != nil {
		app.operationFailedResponse(w, r, http.StatusInternalServerError, msgUpdateFailed, err)
		return
	}

	app.redirectToList(w, r)
}

// deleteBookHandler handles DELETE /books/:id.
// Deleting a book that does not exist is a no-op.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.errorResponse(w, r, http.StatusNotFound, msgBookNotFound)
		return
	}

	err = app.models.Books.Delete(r.Context(), id)
	if err != nil {
		app.operationFailedResponse(w, r, http.StatusInternalServerError, msgDeleteFailed, err)
		return
	}

	app.redirectToList(w, r)
}

func bookURL(id int64) string {
	return "/books/" + strconv.FormatInt(id, 10)
}
