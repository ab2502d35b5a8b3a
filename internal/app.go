// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/denbitaro/nikki/internal/diaryservice"
	"github.com/denbitaro/nikki/internal/page"
	"github.com/denbitaro/nikki/internal/storage"
	"github.com/denbitaro/nikki/internal/store"
	"github.com/denbitaro/nikki/internal/watcher"
	"github.com/denbitaro/nikki/internal/web"
)

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

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_dir", cfg.Site.DataDir),
		slog.String("content_dir", cfg.Site.ContentDir),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure data and content directories exist.
	if err := os.MkdirAll(cfg.Site.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Site.ContentDir, 0o755); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}

	// Initialize storage.
	dataFS, err := storage.NewFS(cfg.Site.DataDir)
	if err != nil {
		return fmt.Errorf("init data storage: %w", err)
	}
	contentFS, err := storage.NewFS(cfg.Site.ContentDir)
	if err != nil {
		return fmt.Errorf("init content storage: %w", err)
	}

	// Entry store, page generator, rebuilder, service.
	st := store.New(dataFS, store.IndexFileName)
	gen := page.NewGenerator(cfg.Site.Title, cfg.Site.DetailStylesheetHref)
	reb := page.NewRebuilder(contentFS, logger)
	svc := diaryservice.NewService(st, contentFS, gen, reb, cfg.Site.ContentHref)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount admin, public list, and generated detail pages.
	r.Mount("/", web.NewRouter(svc, web.Config{
		SiteTitle:          cfg.Site.Title,
		SiteNote:           cfg.Site.Note,
		ContentDir:         cfg.Site.ContentDir,
		ContentHref:        cfg.Site.ContentHref,
		ListStylesheetHref: cfg.Site.ListStylesheetHref,
		ListPageHref:       cfg.Site.ListPageHref,
		AuthOpen:           cfg.Auth.Open(),
		Password:           cfg.Auth.Password,
		SessionKey:         cfg.Auth.SessionKey,
	}))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the data dir for out-of-band index changes and re-sync the
	// navigation blocks when the file is replaced externally.
	g.Go(func() error {
		watcher.Watch(gCtx, cfg.Site.DataDir, store.IndexFileName, logger, func() {
			entries, err := st.Load()
			if err != nil {
				logger.Warn("watcher rebuild: load failed", slog.String("error", err.Error()))
				return
			}
			if err := reb.RebuildAll(entries); err != nil {
				logger.Warn("watcher rebuild failed", slog.String("error", err.Error()))
			}
		})
		return nil
	})

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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
