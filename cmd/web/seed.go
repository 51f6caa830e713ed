// cmd/web/seed.go
package main

import (
	"context"

	"github.com/aoideee/booklog/internal/data"
)

// sampleBooks are inserted by -seed so a fresh install has something to show.
var sampleBooks = []data.BookInput{
	{
		Title:    "Atomic Habits",
		Author:   "James Clear",
		Rating:   "5",
		Notes:    "Great book on habit formation.",
		DateRead: "2024-02-25",
		ISBN:     "9780735211292",
	},
	{
		Title:    "The Psychology of Money",
		Author:   "Morgan Housel",
		Rating:   "4",
		Notes:    "Insightful perspectives on how people think about money.",
		DateRead: "2024-01-15",
		ISBN:     "9780857197689",
	},
	{
		Title:    "Sapiens: A Brief History of Humankind",
		Author:   "Yuval Noah Harari",
		Rating:   "5",
		Notes:    "Fascinating exploration of human history.",
		DateRead: "2023-11-10",
		ISBN:     "9780062316097",
	},
	{
		Title:    "Project Hail Mary",
		Author:   "Andy Weir",
		Rating:   "4",
		Notes:    "Engaging sci-fi with great scientific problem-solving.",
		DateRead: "2023-12-05",
		ISBN:     "9780593135204",
	},
}

// seedSampleBooks inserts sampleBooks, but only into an empty table.
func (app *applicationDependencies) seedSampleBooks(ctx context.Context) error {
	n, err := app.models.Books.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		app.logger.Info("skipping seed, books table is not empty", "count", n)
		return nil
	}

	for _, input := range sampleBooks {
		book := &data.Book{}
		input.Apply(book)
		if err := app.models.Books.Insert(ctx, book); err != nil {
			return err
		}
	}

	app.logger.Info("seeded sample books", "count", len(sampleBooks))
	return nil
}
