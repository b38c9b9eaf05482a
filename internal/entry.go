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
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"github.com/shiralev/matkonim/internal/api"
	"github.com/shiralev/matkonim/internal/discovery"
	"github.com/shiralev/matkonim/internal/extract"
	"github.com/shiralev/matkonim/internal/imagecache"
	"github.com/shiralev/matkonim/internal/llm"
	"github.com/shiralev/matkonim/internal/mcpserver"
	"github.com/shiralev/matkonim/internal/recipeservice"
	"github.com/shiralev/matkonim/internal/store"
	"github.com/shiralev/matkonim/internal/web"
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

	// Initialize structured JSON logger. In MCP mode stdout carries the
	// protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcpMode {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("gemini_model", cfg.Gemini.Model),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the recipe store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	userAgent := cfg.Images.UserAgent
	if userAgent == "" {
		userAgent = discovery.UserAgent
	}

	// Short-timeout client for page and image fetches.
	fetchClient := resty.New().
		SetTimeout(cfg.Images.FetchTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(3)).
		SetHeader("User-Agent", userAgent)

	// The model client carries no request timeout; extraction calls are
	// bounded by the request context instead.
	modelClient := resty.New().SetHeader("User-Agent", userAgent)

	cache := imagecache.New(fetchClient, cfg.Images.CacheTTL)
	finder := discovery.NewFinder(fetchClient, cfg.Images.NoembedURL)
	gemini := llm.NewGemini(modelClient, cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.VisionModel)
	extractor := extract.New(gemini, finder, cache, fetchClient, logger)
	svc := recipeservice.NewService(db, extractor, cache)

	if app.mcpMode {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	// Build UI handler and routers.
	sessions := web.NewSessions()
	webHandler, err := web.NewHandler(svc, sessions, logger)
	if err != nil {
		return fmt.Errorf("init web: %w", err)
	}
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api and the UI at the root.
	r.Mount("/api", apiRouter)
	r.Mount("/", web.NewRouter(webHandler))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

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
