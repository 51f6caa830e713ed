// cmd/web/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/aoideee/booklog/ui"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → logRequest → rateLimit → methodOverride → csrfProtect → router
//
// Current endpoints:
//
//	GET        /                 – redirect to the book list
//	GET        /books            – list books, ?sort=&direction=
//	GET        /books/new        – create form
//	POST       /books            – create a book
//	GET        /books/edit/:id   – edit form
//	PUT, PATCH /books/:id        – replace every field of a book
//	DELETE     /books/:id        – delete a book
//	GET        /static/*filepath – stylesheets and images
//	GET        /healthz          – liveness probe
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.Handler(http.MethodGet, "/static/*filepath", http.FileServer(http.FS(ui.Files)))

	router.HandlerFunc(http.MethodGet, "/", app.homeHandler)
	router.HandlerFunc(http.MethodGet, "/healthz", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/books", app.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/books/new", app.newBookFormHandler)
	router.HandlerFunc(http.MethodPost, "/books", app.createBookHandler)
	router.HandlerFunc(http.MethodGet, "/books/edit/:id", app.editBookFormHandler)
	router.HandlerFunc(http.MethodPut, "/books/:id", app.updateBookHandler)
	router.HandlerFunc(http.MethodPatch, "/books/:id", app.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, "/books/:id", app.deleteBookHandler)

	return app.recoverPanic(app.logRequest(app.rateLimit(app.methodOverride(app.csrfProtect(router)))))
}
