// Podcast voice skill server.
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
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jorgej/gimlet-skill-sub000/internal/api"
	"github.com/jorgej/gimlet-skill-sub000/internal/auth"
	"github.com/jorgej/gimlet-skill-sub000/internal/catalog"
	"github.com/jorgej/gimlet-skill-sub000/internal/config"
	"github.com/jorgej/gimlet-skill-sub000/internal/console"
	"github.com/jorgej/gimlet-skill-sub000/internal/middleware"
	"github.com/jorgej/gimlet-skill-sub000/internal/skill"
	"github.com/jorgej/gimlet-skill-sub000/internal/store"
	"github.com/jorgej/gimlet-skill-sub000/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "store", cfg.Store.Driver, "console", cfg.Console.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies.
	repo, err := store.Open(ctx, store.Options{
		Driver:        cfg.Store.Driver,
		SQLitePath:    cfg.Store.DBPath,
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
	})
	if err != nil {
		slog.Error("Failed to initialize attribute store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		slog.Error("Attribute store health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Attribute store connected")

	def, err := catalog.LoadDefinition(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}
	feeds := catalog.NewFeedFetcher(&http.Client{Timeout: cfg.Feed.Timeout}, cfg.Feed.CacheTTL)
	cat, err := catalog.New(def, feeds)
	if err != nil {
		slog.Error("Failed to build catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Catalog loaded", "shows", len(def.Shows), "exclusives", len(def.Exclusives))

	if cfg.Auth.BaseURL == "" {
		slog.Warn("AUTH_BASE_URL not set, exclusive content will be unavailable")
	}
	authClient := auth.NewClient(cfg.Auth.BaseURL, cfg.Auth.Timeout)

	sk, err := skill.New(cat, authClient)
	if err != nil {
		slog.Error("Failed to initialize skill", "error", err)
		os.Exit(1)
	}

	// Initialize handlers.
	proc := api.NewProcessor(sk, repo)
	skillHandler := api.NewSkillHandler(proc, cfg.ApplicationID)
	showsHandler := api.NewShowsHandler(cat)
	healthHandler := api.NewHealthHandler(repo, cfg.Timeout.HealthCheck)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.Console.CORSOrigins))

	// Public routes.
	healthHandler.RegisterHealth(r)
	r.Handle("/metrics", promhttp.Handler())
	showsHandler.RegisterRoutes(r)

	skillHandler.RegisterRoutes(r, middleware.RateLimit(middleware.RateLimitConfig{
		RequestLimit: cfg.RateLimit.Requests,
		WindowSize:   cfg.RateLimit.Window,
	}))

	if cfg.Console.Enabled {
		sm := console.NewSessionManager()
		r.Get("/ws/console", console.NewHandler(proc, sm, cfg.Console.CORSOrigins).ServeHTTP)
		r.Handle("/console/*", http.StripPrefix("/console", web.ConsoleHandler()))
		slog.Info("Development console enabled", "path", "/console/")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // console websockets are long lived
		IdleTimeout:  120 * time.Second,
	}

	catalog.StartRefreshWorker(ctx, cat, feeds, cfg.Feed.RefreshInterval)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout.Shutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
