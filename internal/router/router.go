// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains of the
// SalonSite server. Routes are organized into the session-bound form group
// and the stateless JSON API.
package router

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"salonsite/internal/handlers"
	"salonsite/internal/middleware"
	"salonsite/internal/session"
)

const (
	// maxFormBody bounds plain form posts.
	maxFormBody = 1 << 20

	// maxUploadBody bounds one upload request: a full portfolio batch plus
	// multipart overhead.
	maxUploadBody = 48 << 20

	healthTimeout = 2 * time.Second
)

// Checker reports whether a backing service is reachable.
type Checker func(ctx context.Context) error

// Limiters holds the per-route rate limiters. A nil limiter disables
// limiting for its routes.
type Limiters struct {
	Generate *middleware.RateLimiter
	Upload   *middleware.RateLimiter
	Suggest  *middleware.RateLimiter
}

// Options carries everything the router wires together.
type Options struct {
	Site     *handlers.Site
	API      *handlers.API
	Sessions *session.Store

	SecureCookie bool
	CORSOrigins  []string
	Limiters     Limiters

	// Health lists the services checked by /health, by name.
	Health map[string]Checker

	// Static is served under /static/ when set.
	Static fs.FS
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no session, no CSRF.
	r.Get("/health", healthHandler(opts.Health))

	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Static))))
	}

	// JSON API, stateless and shareable across origins.
	r.Route("/api", func(r chi.Router) {
		r.Use(corsHandler(opts.CORSOrigins))
		r.Use(middleware.MaxBodySize(maxFormBody))

		r.Get("/variants", opts.API.Variants)
		r.Get("/generations", opts.API.Generations)
		r.With(limit(opts.Limiters.Suggest)).Post("/suggest", opts.API.Suggest)
	})

	// Form routes, bound to the visitor session. The body cap comes before
	// the CSRF check, which reads the form.
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(opts.Sessions, opts.Site.PickVariant))
		r.Use(bodyLimit)
		r.Use(middleware.NewCSRF(opts.SecureCookie))

		r.Get("/", opts.Site.Index)
		r.Get("/preview", opts.Site.Preview)
		r.Post("/reset", opts.Site.Reset)
		r.With(limit(opts.Limiters.Generate)).Post("/generate", opts.Site.Generate)

		r.With(limit(opts.Limiters.Upload)).Post("/upload/{slot}", opts.Site.Upload)
		r.With(limit(opts.Limiters.Upload)).Post("/upload/{slot}/clear", opts.Site.ClearUpload)
	})

	return r
}

// bodyLimit caps request bodies: uploads get room for a portfolio batch,
// every other form a small limit.
func bodyLimit(next http.Handler) http.Handler {
	upload := middleware.MaxBodySize(maxUploadBody)(next)
	form := middleware.MaxBodySize(maxFormBody)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/upload/") {
			upload.ServeHTTP(w, r)
			return
		}
		form.ServeHTTP(w, r)
	})
}

// limit returns the middleware of rl, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// corsHandler allows the configured origins to call the JSON API. With no
// origin configured no CORS header is sent and only same-origin requests
// succeed.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// healthHandler returns a JSON health check response. Each checker is
// reported by name; any failure turns the status into 503.
func healthHandler(checks map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]any{"status": "ok"}

		if len(checks) > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()

			names := make([]string, 0, len(checks))
			for name := range checks {
				names = append(names, name)
			}
			sort.Strings(names)

			services := make(map[string]string, len(checks))
			for _, name := range names {
				if err := checks[name](ctx); err != nil {
					slog.Warn("health check failed", "service", name, "error", err)
					services[name] = "unavailable"
					status = http.StatusServiceUnavailable
					body["status"] = "degraded"
					continue
				}
				services[name] = "ok"
			}
			body["services"] = services
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}
