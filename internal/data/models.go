// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"strings"

	"github.com/aoideee/booklog/internal/validator"
)

var (
	// ErrRecordNotFound is returned when a query finds no matching row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateISBN is returned when an insert or update would give two
	// books the same ISBN.
	ErrDuplicateISBN = errors.New("duplicate isbn")
)

// BookStore is the set of operations the HTTP layer needs from the books table.
// BookModel is the postgres implementation; tests substitute an in-memory one.
type BookStore interface {
	Insert(ctx context.Context, book *Book) error
	Get(ctx context.Context, id int64) (*Book, error)
	GetAll(ctx context.Context, filters Filters) ([]*Book, error)
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Models is a top-level container that groups all database model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to the database without importing sql directly.
type Models struct {
	Books BookStore
}

// NewModels constructs a Models value wired up to the given database connection pool.
func NewModels(db *sql.DB) Models {
	return Models{
		Books: BookModel{DB: db},
	}
}

//go:embed schema.sql
var schema string

// EnsureSchema creates the books table and its indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Sort defaults applied when the requested column or direction is not allowed.
const (
	DefaultSortColumn    = "created_at"
	DefaultSortDirection = "DESC"
)

// BookSortSafeList holds the columns the book list may be ordered by.
var BookSortSafeList = []string{"title", "author", "rating", "date_read", "created_at"}

// Filters holds the validated sort state of a list query. Build it with
// NewFilters; both fields are then safe to interpolate into ORDER BY.
type Filters struct {
	Sort      string
	Direction string
}

// NewFilters whitelists an untrusted sort column and direction. Unknown
// columns fall back to created_at and unknown directions to DESC.
func NewFilters(sort, direction string) Filters {
	return Filters{
		Sort:      sortColumn(sort, BookSortSafeList),
		Direction: sortDirection(direction),
	}
}

func sortColumn(sort string, safeList []string) string {
	if validator.In(sort, safeList...) {
		return sort
	}
	return DefaultSortColumn
}

func sortDirection(direction string) string {
	switch strings.ToUpper(direction) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return DefaultSortDirection
}
