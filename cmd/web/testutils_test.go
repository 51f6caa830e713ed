package main

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aoideee/booklog/internal/data"
)

// memoryBookStore is an in-memory data.BookStore. Setting err makes every
// call fail with it, standing in for a lost database connection.
type memoryBookStore struct {
	mu          sync.Mutex
	books       map[int64]*data.Book
	nextID      int64
	err         error
	lastFilters data.Filters
}

func newMemoryBookStore() *memoryBookStore {
	return &memoryBookStore{books: map[int64]*data.Book{}}
}

func copyBook(b *data.Book) *data.Book {
	c := *b
	if b.Rating != nil {
		r := *b.Rating
		c.Rating = &r
	}
	return &c
}

func (s *memoryBookStore) Insert(_ context.Context, book *data.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, b := range s.books {
		if book.ISBN != "" && b.ISBN == book.ISBN {
			return data.ErrDuplicateISBN
		}
	}
	s.nextID++
	book.ID = s.nextID
	book.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.nextID) * time.Second)
	s.books[book.ID] = copyBook(book)
	return nil
}

func (s *memoryBookStore) Get(_ context.Context, id int64) (*data.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.books[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	return copyBook(b), nil
}

func (s *memoryBookStore) GetAll(_ context.Context, filters data.Filters) ([]*data.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.lastFilters = filters

	books := []*data.Book{}
	for _, b := range s.books {
		c := copyBook(b)
		if c.Rating == nil {
			zero := 0
			c.Rating = &zero
		}
		books = append(books, c)
	}

	slices.SortFunc(books, func(a, b *data.Book) int {
		var n int
		switch filters.Sort {
		case "title":
			n = cmp.Compare(a.Title, b.Title)
		case "author":
			n = cmp.Compare(a.Author, b.Author)
		case "rating":
			n = cmp.Compare(*a.Rating, *b.Rating)
		case "date_read":
			n = cmp.Compare(a.DateRead, b.DateRead)
		default:
			n = a.CreatedAt.Compare(b.CreatedAt)
		}
		if filters.Direction == "DESC" {
			n = -n
		}
		if n == 0 {
			n = cmp.Compare(a.ID, b.ID)
		}
		return n
	})
	return books, nil
}

func (s *memoryBookStore) Update(_ context.Context, book *data.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	existing, ok := s.books[book.ID]
	if !ok {
		return nil
	}
	for _, b := range s.books {
		if b.ID != book.ID && book.ISBN != "" && b.ISBN == book.ISBN {
			return data.ErrDuplicateISBN
		}
	}
	c := copyBook(book)
	c.CreatedAt = existing.CreatedAt
	s.books[book.ID] = c
	return nil
}

func (s *memoryBookStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.books, id)
	return nil
}

func (s *memoryBookStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return len(s.books), nil
}

// newTestApplication returns an application backed by store with rate
// limiting and CSRF protection switched off.
func newTestApplication(t *testing.T, store data.BookStore) *applicationDependencies {
	t.Helper()

	templateCache, err := newTemplateCache()
	require.NoError(t, err)

	var cfg serverConfig
	cfg.environment = "testing"

	return &applicationDependencies{
		config:        cfg,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		models:        data.Models{Books: store},
		templateCache: templateCache,
	}
}

// send runs a request through h. A non-nil form is sent url-encoded.
func send(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func formValues(title, author, rating, dateRead, isbn, notes string) url.Values {
	return url.Values{
		"title":     {title},
		"author":    {author},
		"rating":    {rating},
		"date_read": {dateRead},
		"isbn":      {isbn},
		"notes":     {notes},
	}
}
