// Package main is the entry point for the City Info API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/cityinfo/internal/config"
	"github.com/pkordes/cityinfo/internal/database"
	"github.com/pkordes/cityinfo/internal/handler"
	"github.com/pkordes/cityinfo/internal/mail"
	"github.com/pkordes/cityinfo/internal/middleware"
	"github.com/pkordes/cityinfo/internal/repo"
	"github.com/pkordes/cityinfo/internal/service"
	"github.com/pkordes/cityinfo/internal/validate"
	"github.com/pkordes/cityinfo/openapi"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---------------------------------------------------------
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("database connection established", "env", cfg.Env)

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return err
		}
	}

	// --- Services ---------------------------------------------------------
	mailer, err := mail.New(cfg.Mail, logger)
	if err != nil {
		return err
	}
	newRepo := func() repo.CityInfoRepo { return repo.NewCityInfoRepo(pool) }

	srv := handler.NewServer(
		service.NewCityService(newRepo),
		service.NewPointOfInterestService(newRepo, mailer, validate.New(), logger),
		pool,
		logger,
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Metrics → Logger →
	// Recoverer → CORS → body limit → rate limit.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(metrics.Handler)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	if cfg.RateLimit.Requests > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/openapi.yaml", openapi.Handler)

	var apiMiddleware []func(http.Handler) http.Handler
	if cfg.Auth.Enabled() {
		apiMiddleware = append(apiMiddleware,
			middleware.NewJWTAuth([]byte(cfg.Auth.SecretForKey), cfg.Auth.Issuer, cfg.Auth.Audience))
		if cfg.Auth.RequiredCity != "" {
			apiMiddleware = append(apiMiddleware, middleware.RequireClaim(middleware.CityClaim, cfg.Auth.RequiredCity))
		}
	} else {
		slog.Warn("AUTH_SECRET_FOR_KEY not set; /api is unauthenticated")
	}
	srv.Mount(r, apiMiddleware...)

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Serve until a signal arrives, then give in-flight requests
	// SHUTDOWN_TIMEOUT to complete before forcefully closing.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
