package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jslaski/patchbay/internal/config"
	"github.com/jslaski/patchbay/internal/handler"
	"github.com/jslaski/patchbay/internal/repository/sqlite"
	"github.com/jslaski/patchbay/internal/service"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var logHandler slog.Handler = slog.NewTextHandler(os.Stdout, logOpts)
	if cfg.IsProduction() {
		logHandler = slog.NewJSONHandler(os.Stdout, logOpts)
	}
	slog.SetDefault(slog.New(logHandler))

	store := sqlite.New(sqlite.Options{
		Path:          cfg.DatabasePath,
		MigrationsDir: cfg.MigrationsDir,
		BusyTimeout:   cfg.BusyTimeout,
		ReadOnly:      cfg.ReadOnly,
	})
	defer store.Close()

	// Initialize eagerly so a broken schema or migration fails the boot
	// instead of the first request.
	if err := store.EnsureInitialized(context.Background()); err != nil {
		slog.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	applied, err := store.AppliedMigrations(context.Background())
	if err != nil {
		slog.Error("failed to read migration ledger", "error", err)
		os.Exit(1)
	}
	slog.Info("store initialized", "path", cfg.DatabasePath, "migrations_applied", len(applied))

	// Allow a burst of 5 login attempts per account, refilling one
	// attempt every 10 seconds.
	limiter := service.NewTokenBucket(0.1, 5)
	defer limiter.Stop()

	authService := service.NewAuthService(store.Users(), limiter, cfg.JWTSecret, cfg.BcryptCost)
	inventoryService := service.NewInventoryService(store.Groups(), store.Services(), store.StatusEvents())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, inventoryService, store, cfg.CookieSecure)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.SecurityHeaders(handler.RequestID(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
