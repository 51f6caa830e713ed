// Package data provides the data models and database interaction logic
// for the reading log.
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/aoideee/booklog/internal/validator"
)

// DateLayout is the layout of date_read in forms and views.
const DateLayout = "2006-01-02"

// uniqueViolation is the postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table.
type Book struct {
	ID        int64     // Unique identifier assigned by the database
	Title     string    // Title of the book
	Author    string    // Author of the book
	Rating    *int      // 0 to 5, nil when the book has not been rated
	Notes     string    // Free-form reading notes
	DateRead  string    // YYYY-MM-DD, empty when unknown
	ISBN      string    // ISBN-10 or ISBN-13, empty when unknown; unique when set
	CreatedAt time.Time // Timestamp when the record was created
}

// Stars returns the rating for display, treating a missing rating as 0.
func (b *Book) Stars() int {
	if b.Rating == nil {
		return 0
	}
	return *b.Rating
}

// CoverURL returns the Open Library cover image for the book's ISBN.
func (b *Book) CoverURL() string {
	isbn := normalizeISBN(b.ISBN)
	if isbn == "" {
		return ""
	}
	return "https://covers.openlibrary.org/b/isbn/" + isbn + "-M.jpg"
}

// BookInput holds the raw form values submitted when creating or editing a book.
// Every field is kept as typed so the form can be re-rendered unchanged.
type BookInput struct {
	Title    string
	Author   string
	Rating   string
	Notes    string
	DateRead string
	ISBN     string
}

// NewBookInput fills a form from an existing book, for the edit page.
func NewBookInput(book *Book) BookInput {
	input := BookInput{
		Title:    book.Title,
		Author:   book.Author,
		Notes:    book.Notes,
		DateRead: book.DateRead,
		ISBN:     book.ISBN,
	}
	if book.Rating != nil {
		input.Rating = strconv.Itoa(*book.Rating)
	}
	return input
}

// ValidateBookInput checks a submitted form. Create and update share it, so a
// rating is either empty (stored as NULL) or an integer between 0 and 5 on
// both paths.
func ValidateBookInput(v *validator.Validator, input BookInput) {
	v.Check(validator.NotBlank(input.Title), "title", "must be provided")
	v.Check(validator.MaxChars(input.Title, 500), "title", "must not be more than 500 characters long")

	v.Check(validator.NotBlank(input.Author), "author", "must be provided")
	v.Check(validator.MaxChars(input.Author, 500), "author", "must not be more than 500 characters long")

	if rating := strings.TrimSpace(input.Rating); rating != "" {
		n, err := strconv.Atoi(rating)
		v.Check(err == nil, "rating", "must be a whole number")
		v.Check(validator.Between(n, 0, 5), "rating", "must be between 0 and 5")
	}

	if date := strings.TrimSpace(input.DateRead); date != "" {
		_, err := time.Parse(DateLayout, date)
		v.Check(validator.Matches(date, validator.DateRX) && err == nil, "date_read", "must be a valid date (YYYY-MM-DD)")
	}

	// ISBN is optional; uniqueness is left to the store.
	if isbn := normalizeISBN(input.ISBN); isbn != "" {
		v.Check(validator.Matches(isbn, validator.ISBNRX), "isbn", "must be a valid ISBN-10 or ISBN-13")
	}
}

// Apply copies a validated form onto book, overwriting every mutable field.
func (input BookInput) Apply(book *Book) {
	book.Title = strings.TrimSpace(input.Title)
	book.Author = strings.TrimSpace(input.Author)
	book.Notes = input.Notes
	book.DateRead = strings.TrimSpace(input.DateRead)
	book.ISBN = normalizeISBN(input.ISBN)

	book.Rating = nil
	if n, err := strconv.Atoi(strings.TrimSpace(input.Rating)); err == nil {
		book.Rating = &n
	}
}

func normalizeISBN(isbn string) string {
	return strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn)))
}

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting book records.
type BookModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new book record to the database.
// After a successful insert, the database-assigned id and created_at
// values are written back into the book struct.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (title, author, rating, notes, date_read, isbn)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::date, NULLIF($6, ''))
		RETURNING id, created_at`

	args := []any{
		book.Title,
		book.Author,
		nullRating(book.Rating),
		book.Notes,
		book.DateRead,
		book.ISBN,
	}

	err := m.DB.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.CreatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// Get retrieves a single book by its primary key.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(ctx context.Context, id int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, title, author, rating, COALESCE(notes, ''),
		       COALESCE(TO_CHAR(date_read, 'YYYY-MM-DD'), ''), COALESCE(isbn, ''), created_at
		FROM books
		WHERE id = $1`

	var (
		book   Book
		rating sql.NullInt64
	)
	err := m.DB.QueryRowContext(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&rating,
		&book.Notes,
		&book.DateRead,
		&book.ISBN,
		&book.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if rating.Valid {
		n := int(rating.Int64)
		book.Rating = &n
	}
	return &book, nil
}

// GetAll retrieves every book ordered by the validated filters. A missing
// rating is read as 0 so rated and unrated books sort together.
func (m BookModel) GetAll(ctx context.Context, filters Filters) ([]*Book, error) {
	// NewFilters guarantees both values come from a fixed list.
	filters = NewFilters(filters.Sort, filters.Direction)
	query := fmt.Sprintf(`
		SELECT id, title, author, COALESCE(rating, 0) AS rating, COALESCE(notes, '') AS notes,
		       COALESCE(TO_CHAR(date_read, 'YYYY-MM-DD'), '') AS date_read, COALESCE(isbn, '') AS isbn, created_at
		FROM books
		ORDER BY %s %s, id ASC`, filters.Sort, filters.Direction)

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*Book{}

	for rows.Next() {
		var (
			book   Book
			rating int
		)
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&rating,
			&book.Notes,
			&book.DateRead,
			&book.ISBN,
			&book.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		book.Rating = &rating
		books = append(books, &book)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return books, nil
}

// Update overwrites every mutable column of the book with the given id.
// created_at is never touched. Updating an id that does not exist affects
// no rows and is not an error.
func (m BookModel) Update(ctx context.Context, book *Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, rating = $3, notes = $4,
		    date_read = NULLIF($5, '')::date, isbn = NULLIF($6, '')
		WHERE id = $7`

	args := []any{
		book.Title,
		book.Author,
		nullRating(book.Rating),
		book.Notes,
		book.DateRead,
		book.ISBN,
		book.ID,
	}

	_, err := m.DB.ExecContext(ctx, query, args...)
	return mapError(err)
}

// Delete removes the book with the given id. Deleting an id that does not
// exist is a no-op.
func (m BookModel) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM books WHERE id = $1`

	_, err := m.DB.ExecContext(ctx, query, id)
	return err
}

// Count returns the number of stored books.
func (m BookModel) Count(ctx context.Context) (int, error) {
	var n int
	err := m.DB.QueryRowContext(ctx, `SELECT count(*) FROM books`).Scan(&n)
	return n, err
}

func nullRating(rating *int) sql.NullInt64 {
	if rating == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*rating), Valid: true}
}

// mapError translates a unique violation into ErrDuplicateISBN; isbn is the
// only unique column a caller can write. Empty ISBNs are stored as NULL and
// never collide.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateISBN
	}
	return err
}
