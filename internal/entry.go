// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/resource-api/internal/api"
	"github.com/starford/resource-api/internal/resourceservice"
	"github.com/starford/resource-api/internal/store"
)

// NewLogger builds the process logger: text in development, JSON otherwise.
// level is read on every record so it can be changed while running.
func NewLogger(cfg *Config, level *slog.LevelVar, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	level.Set(cfg.App.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if cfg.App.Development() {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	var level slog.LevelVar
	logger := NewLogger(cfg, &level, app.logOutput)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("env", cfg.App.Env),
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("api_prefix", cfg.App.APIPrefix),
		slog.String("store_dsn", cfg.Store.DSN),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	svc := resourceservice.NewService(db)

	var metrics *api.Metrics
	if cfg.App.Metrics {
		metrics = api.NewMetrics()
	}
	r := api.NewRouter(svc, api.RouterConfig{
		APIPrefix:   cfg.App.APIPrefix,
		CORSOrigins: cfg.CORS.Origins(),
		Logger:      logger,
		Development: cfg.App.Development(),
		Metrics:     metrics,
		AccessLog:   cfg.App.AccessLog,
	})

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	// Reload the log level when the config file changes.
	if app.configPath != "" {
		g.Go(func() error {
			if err := WatchConfig(gCtx, app.configPath, logger, applyLogLevel(&level, logger)); err != nil {
				logger.Warn("config watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Release the remaining workers.
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
