// Package main is the entry point for the book log web server.
// It wires together configuration, the database connection, and the HTTP router.
package main

import (
	"context"
	"database/sql"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // Register the PostgreSQL driver with database/sql.

	"github.com/aoideee/booklog/internal/data"
)

// appVersion is the current version of the application, shown in logs.
const appVersion = "1.0.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config        serverConfig                  // Server configuration loaded from flags
	logger        *slog.Logger                  // Structured logger that writes to stdout
	models        data.Models                   // Database model layer for all tables
	templateCache map[string]*template.Template // Parsed page templates keyed by file name
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("loading .env", "error", err)
		os.Exit(1)
	}

	settings, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(2)
	}

	db, err := openDB(settings)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("database connection pool established")

	if settings.db.migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = data.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			logger.Error("applying schema", "error", err)
			os.Exit(1)
		}
	}

	templateCache, err := newTemplateCache()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	appInstance := &applicationDependencies{
		config:        settings,
		logger:        logger,
		models:        data.NewModels(db),
		templateCache: templateCache,
	}

	if settings.seed {
		if err := appInstance.seedSampleBooks(context.Background()); err != nil {
			logger.Error("seeding sample books", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("booklog", "version", appVersion)

	err = appInstance.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// openDB opens a PostgreSQL connection pool using the configured DSN,
// then pings the database with a 5-second timeout to confirm it is reachable.
func openDB(settings serverConfig) (*sql.DB, error) {
	// sql.Open only validates the DSN format; it does not actually connect yet.
	db, err := sql.Open("postgres", settings.dsn())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(settings.db.maxOpenConns)
	db.SetMaxIdleConns(settings.db.maxIdleConns)
	db.SetConnMaxIdleTime(settings.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
