// cmd/web/config.go
// This file defines the startup configuration and how it is read from
// command-line flags, with defaults taken from the environment.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// serverConfig holds all the values that can be tweaked at startup via
// command-line flags or environment variables.
type serverConfig struct {
	port        int    // TCP port the HTTP server listens on (default 4000)
	environment string // Runtime environment: development, staging, or production
	db          struct {
		dsn          string        // Full DSN; overrides the individual connection parts
		host         string        // PostgreSQL host
		port         int           // PostgreSQL port
		user         string        // PostgreSQL user
		password     string        // PostgreSQL password
		name         string        // Database name
		sslMode      string        // sslmode connection parameter
		maxOpenConns int           // Upper bound on open connections in the pool
		maxIdleConns int           // Upper bound on idle connections in the pool
		maxIdleTime  time.Duration // How long a connection may stay idle
		migrate      bool          // Create the books table on startup
	}
	limiter struct {
		enabled bool    // Per-IP rate limiting on or off
		rps     float64 // Tokens added per second
		burst   int     // Bucket size
	}
	csrfKey string // 32-byte key for form CSRF tokens; empty disables protection
	seed    bool   // Insert the sample books when the table is empty
}

// parseConfig reads flags from args. Every flag falls back to an environment
// variable looked up through getenv, and then to a built-in default.
func parseConfig(args []string, getenv func(string) string) (serverConfig, error) {
	var cfg serverConfig

	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}
	envInt := func(key string, fallback int) int {
		if v, err := strconv.Atoi(getenv(key)); err == nil {
			return v
		}
		return fallback
	}

	fs := flag.NewFlagSet("booklog", flag.ContinueOnError)

	fs.IntVar(&cfg.port, "port", envInt("PORT", 4000), "Server port")
	fs.StringVar(&cfg.environment, "env", env("APP_ENV", "development"), "Environment(development|staging|production)")

	fs.StringVar(&cfg.db.dsn, "db-dsn", getenv("DATABASE_URL"), "PostgreSQL DSN (overrides -db-host etc.)")
	fs.StringVar(&cfg.db.host, "db-host", env("DB_HOST", "localhost"), "PostgreSQL host")
	fs.IntVar(&cfg.db.port, "db-port", envInt("DB_PORT", 5432), "PostgreSQL port")
	fs.StringVar(&cfg.db.user, "db-user", env("DB_USER", "booklog"), "PostgreSQL user")
	fs.StringVar(&cfg.db.password, "db-password", getenv("DB_PASSWORD"), "PostgreSQL password")
	fs.StringVar(&cfg.db.name, "db-name", env("DB_NAME", "booklog"), "PostgreSQL database name")
	fs.StringVar(&cfg.db.sslMode, "db-sslmode", env("DB_SSLMODE", "disable"), "PostgreSQL sslmode")
	fs.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	fs.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	fs.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max connection idle time")
	fs.BoolVar(&cfg.db.migrate, "db-migrate", true, "Create the books table if it does not exist")

	fs.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")
	fs.Float64Var(&cfg.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	fs.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")

	fs.StringVar(&cfg.csrfKey, "csrf-key", getenv("CSRF_KEY"), "32-byte CSRF authentication key (empty disables CSRF protection)")
	fs.BoolVar(&cfg.seed, "seed", false, "Insert sample books into an empty database")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return cfg, fmt.Errorf("invalid port %d", cfg.port)
	}
	if cfg.csrfKey != "" && len(cfg.csrfKey) != 32 {
		return cfg, errors.New("csrf key must be exactly 32 bytes")
	}

	return cfg, nil
}

// dsn returns the connection string for lib/pq, building a URL from the
// individual parts unless a full DSN was given.
func (cfg serverConfig) dsn() string {
	if cfg.db.dsn != "" {
		return cfg.db.dsn
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", cfg.db.host, cfg.db.port),
		Path:     "/" + cfg.db.name,
		RawQuery: url.Values{"sslmode": {cfg.db.sslMode}}.Encode(),
	}
	if cfg.db.password != "" {
		u.User = url.UserPassword(cfg.db.user, cfg.db.password)
	} else {
		u.User = url.User(cfg.db.user)
	}
	return u.String()
}
