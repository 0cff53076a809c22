// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"salonsite/internal/config"
	"salonsite/internal/handlers"
	"salonsite/internal/middleware"
	"salonsite/internal/pipeline"
	"salonsite/internal/render"
	"salonsite/internal/router"
	"salonsite/internal/session"
	"salonsite/internal/suggest"
	"salonsite/internal/theme"
	"salonsite/web"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the salon form web server",
		Long: `Starts the SalonSite web form. Visitors fill in their salon details,
upload pictures, preview the result and download the generated site.`,
		Example: `  # Start with salonsite.yaml and SALONSITE_* overrides
  salonsite serve

  # Listen on another address
  salonsite serve --addr 127.0.0.1:3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Host, cfg.Server.Port = splitAddr(addr, cfg.Server.Port)
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.host and server.port")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("configuration loaded",
		"env", cfg.Server.Env,
		"addr", cfg.Addr(),
		"assets", cfg.Assets.Source,
		"sessions", cfg.Session.Backend,
	)

	svc, err := openServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	// Visitor sessions hold the uploaded images until generation.
	var backend session.Backend = session.NewMemory()
	if cfg.Session.Backend == "valkey" {
		backend = session.NewValkey(svc.valkey)
	}
	sessions := session.NewStore(backend, cfg.Session.TTL, cfg.Session.SecureCookie)

	// In dev mode templates are parsed on every request and htmx loads
	// from the CDN.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		return err
	}

	registry := theme.NewRegistry(svc.source)
	generator := svc.generator(registry)
	gate := pipeline.NewGate(cfg.Limits.MaxConcurrent)

	var suggester suggest.Provider
	if cfg.Suggest.Enabled {
		suggester = newSuggester(cfg.Suggest)
	}

	limiters := router.Limiters{
		Generate: newLimiter("generate", cfg.Limits.GenerateRequests),
		Upload:   newLimiter("upload", cfg.Limits.UploadRequests),
		Suggest:  newLimiter("suggest", cfg.Limits.SuggestRequests),
	}
	defer stopLimiters(limiters)

	health := map[string]router.Checker{}
	if svc.valkey != nil {
		health["valkey"] = func(ctx context.Context) error { return svc.valkey.Ping(ctx).Err() }
	}
	if svc.db != nil {
		health["database"] = svc.db.PingContext
	}

	r := router.New(router.Options{
		Site:         handlers.NewSite(renderer, registry, generator, gate, sessions, suggester != nil),
		API:          handlers.NewAPI(registry, suggester, svc.generations),
		Sessions:     sessions,
		SecureCookie: cfg.Session.SecureCookie,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Limiters:     limiters,
		Health:       health,
		Static:       web.Static(),
	})

	// WriteTimeout must cover a full generation of a remote theme plus the
	// archive download.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-serverErr:
		slog.Error("server failed to start", "error", err)
		return err
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

// splitAddr splits a host:port flag, keeping defPort when addr has none.
func splitAddr(addr, defPort string) (host, port string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, defPort
	}
	return host, port
}

// newLimiter returns a per-IP limiter of n requests per minute, or nil when
// n is zero.
func newLimiter(name string, n int) *middleware.RateLimiter {
	if n <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(name, n, time.Minute)
}

func stopLimiters(l router.Limiters) {
	for _, rl := range []*middleware.RateLimiter{l.Generate, l.Upload, l.Suggest} {
		if rl != nil {
			rl.Stop()
		}
	}
}
