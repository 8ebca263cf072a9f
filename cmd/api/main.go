// Package main is the entry point for the travel warnings API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/travelsaas/travel-warnings/internal/config"
	"github.com/travelsaas/travel-warnings/internal/handler"
	"github.com/travelsaas/travel-warnings/internal/mail"
	"github.com/travelsaas/travel-warnings/internal/middleware"
	"github.com/travelsaas/travel-warnings/internal/provider"
	"github.com/travelsaas/travel-warnings/internal/repo"
	"github.com/travelsaas/travel-warnings/internal/scheduler"
	"github.com/travelsaas/travel-warnings/internal/service"
	"github.com/travelsaas/travel-warnings/migrations"
	"github.com/travelsaas/travel-warnings/spec"
)

const maxRequestBodyBytes = 1 << 20 // 1 MiB

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Migrations -------------------------------------------------------
	// goose applies the embedded SQL migrations through a database/sql
	// handle over the same pool.
	db := stdlib.OpenDBFromPool(pool)
	migrator, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		slog.Error("failed to create migration provider", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Up(context.Background()); err != nil {
		slog.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	if err := db.Close(); err != nil {
		slog.Error("failed to close migration handle", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")

	// --- Repos ------------------------------------------------------------
	tripRepo := repo.NewTripRepo(pool)
	warningRepo := repo.NewWarningRepo(pool)
	notificationRepo := repo.NewNotificationRepo(pool)

	// --- External dependencies --------------------------------------------
	client := provider.NewHTTPClient(cfg.ProviderBaseURL)

	var sender mail.Sender
	if cfg.MailEnabled() {
		sender = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		slog.Warn("SMTP not configured, alerts will be logged only")
		sender = mail.NewLogSender(logger)
	}

	// --- Services ---------------------------------------------------------
	contentSvc := service.NewContentService()
	fetcherSvc := service.NewFetcherService(warningRepo, client, logger)
	matcherSvc := service.NewMatcherService(warningRepo, tripRepo)
	dispatcherSvc := service.NewDispatcherService(notificationRepo, sender, contentSvc, logger)
	tripSvc := service.NewTripService(tripRepo, warningRepo, dispatcherSvc, logger)
	warningSvc := service.NewWarningService(warningRepo, contentSvc)
	notificationSvc := service.NewNotificationService(notificationRepo)

	// --- Scheduler --------------------------------------------------------
	sched := scheduler.New(cfg.SyncSchedule, fetcherSvc, matcherSvc, dispatcherSvc, logger)
	if err := sched.Start(); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBodyBytes))

	server := handler.NewServer(tripSvc, warningSvc, notificationSvc, matcherSvc, sched)
	r.Mount("/", server.Routes())

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, stop the scheduler, then give
	// in-flight requests up to 15 seconds to complete.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
