// cmd/web/middleware.go
// This file contains HTTP middleware used to wrap the router.
// Middleware functions intercept every request before it reaches a handler.
package main

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/csrf"
	"golang.org/x/time/rate"
)

// recoverPanic is the last line of defence. Without it a panic in a handler
// would kill the goroutine and the client's connection would be dropped
// silently; with it the panic is logged and the client gets an opaque 500 page.
func (app *applicationDependencies) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// defer runs when the surrounding goroutine unwinds, even after a panic.
		defer func() {
			if err := recover(); err != nil {
				// Tell the HTTP server to close the connection after this response.
				w.Header().Set("Connection", "close")
				// Convert the recovered panic value to an error and send a 500.
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// logRequest writes one log line per request.
func (app *applicationDependencies) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.Info("received request",
			"remote_addr", r.RemoteAddr,
			"proto", r.Proto,
			"method", r.Method,
			"uri", r.URL.RequestURI(),
		)
		next.ServeHTTP(w, r)
	})
}

// client holds a per-IP rate limiter and the time it was last seen.
// lastSeen lets us evict old entries so the map does not grow forever.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRegistry maps IP addresses to their individual rate limiters.
// Stale entries are swept on the request path at most once per
// sweepInterval, so no background goroutine outlives the handler.
type clientRegistry struct {
	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
	rps       float64
	burst     int
}

const (
	sweepInterval = time.Minute
	clientTTL     = 3 * time.Minute
)

func newClientRegistry(rps float64, burst int) *clientRegistry {
	return &clientRegistry{
		clients:   make(map[string]*client),
		lastSweep: time.Now(),
		rps:       rps,
		burst:     burst,
	}
}

// allow reports whether ip may make a request at now, consuming one token.
func (cr *clientRegistry) allow(ip string, now time.Time) bool {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	// Remove IPs that have not been seen for clientTTL.
	if now.Sub(cr.lastSweep) >= sweepInterval {
		for addr, c := range cr.clients {
			if now.Sub(c.lastSeen) > clientTTL {
				delete(cr.clients, addr)
			}
		}
		cr.lastSweep = now
	}

	// Create a new limiter for this IP if we have not seen it before.
	c, found := cr.clients[ip]
	if !found {
		c = &client{limiter: rate.NewLimiter(rate.Limit(cr.rps), cr.burst)}
		cr.clients[ip] = c
	}
	c.lastSeen = now

	// AllowN consumes one token; returns false if the bucket is empty.
	return c.limiter.AllowN(now, 1)
}

// rateLimit implements per-IP token-bucket rate limiting using the
// golang.org/x/time/rate package. Each unique IP gets its own limiter,
// sized from the limiter config (2 tokens per second and a burst of 4 by
// default). Disabling the limiter returns next unchanged.
func (app *applicationDependencies) rateLimit(next http.Handler) http.Handler {
	if !app.config.limiter.enabled {
		return next
	}

	registry := newClientRegistry(app.config.limiter.rps, app.config.limiter.burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract just the IP from the RemoteAddr (strips the port).
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		if !registry.allow(ip, time.Now()) {
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// maxFormBytes is the largest request body any form may send.
const maxFormBytes = 1_048_576

// methodOverride lets HTML forms, which can only POST, reach the PUT, PATCH
// and DELETE routes through a hidden "_method" field.
//
// Every request body is capped at maxFormBytes here; handlers further down
// read the already-limited body.
func (app *applicationDependencies) methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

		if r.Method == http.MethodPost {
			// Parsing here caches r.PostForm, so later ParseForm calls are no-ops.
			if err := r.ParseForm(); err != nil {
				app.badRequestResponse(w, r, err)
				return
			}

			switch method := strings.ToUpper(r.PostForm.Get("_method")); method {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}

// csrfProtect guards every unsafe request with a gorilla/csrf token. It is a
// pass-through when no key is configured.
func (app *applicationDependencies) csrfProtect(next http.Handler) http.Handler {
	if app.config.csrfKey == "" {
		return next
	}

	protect := csrf.Protect(
		[]byte(app.config.csrfKey),
		csrf.Secure(app.config.environment == "production"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(app.csrfFailureResponse)),
	)(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// gorilla/csrf assumes TLS and checks the Referer unless told otherwise.
		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		protect.ServeHTTP(w, r)
	})
}
