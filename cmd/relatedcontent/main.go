// Package main is the entry point for the related content admin server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relatedcontent/internal/admin"
	"relatedcontent/internal/cache"
	"relatedcontent/internal/config"
	"relatedcontent/internal/database"
	"relatedcontent/internal/handlers"
	"relatedcontent/internal/middleware"
	"relatedcontent/internal/render"
	"relatedcontent/internal/router"
	"relatedcontent/internal/session"
	"relatedcontent/internal/store"
)

const (
	loginAttempts = 10
	loginWindow   = time.Minute
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"initial_filter", cfg.InitialFilter,
	)

	decls, err := config.LoadInlines(cfg.InlinesPath)
	if err != nil {
		slog.Error("failed to load inline declarations", "path", cfg.InlinesPath, "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer startCancel()

	valkeyClient, err := cache.ConnectValkey(startCtx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	userStore := store.NewUserStore(db)
	relatedTypes := store.NewRelatedTypeStore(db)
	contentTypes := store.NewContentTypeStore(db)
	relatedContent := store.NewRelatedContentStore(db)

	options := make(map[string]admin.InlineOptions, len(decls))
	for model, d := range decls {
		options[model] = admin.InlineOptions{
			AllowedTypes:        d.AllowedTypes,
			AllowedContentTypes: d.AllowedContentTypes,
		}
	}
	inlines := admin.NewInlineRegistry(admin.NewFactory(relatedTypes, contentTypes, cfg), options)

	// A broken initial filter is reported now but does not stop the server;
	// the inline page shows the error until the setting is fixed.
	if err := inlines.Validate(startCtx); err != nil {
		slog.Error("related content inline is misconfigured", "error", err)
	}
	slog.Info("related content inlines ready", "restricted_models", inlines.Models())

	site := admin.NewSite()
	if err := site.Register(admin.ModelAdmin{
		Name:        "related_type",
		VerboseName: "Related types",
		URL:         "/admin/related-types",
	}); err != nil {
		slog.Error("failed to register admin models", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New(cfg.IsDev(), site)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	adminHandlers := handlers.NewAdmin(renderer, sessionStore, relatedTypes, contentTypes, relatedContent, inlines, cfg.IsDev())
	authHandlers := handlers.NewAuth(renderer, sessionStore, userStore)
	loginLimiter := middleware.NewRateLimiter(valkeyClient, "login", loginAttempts, loginWindow)

	r := router.New(sessionStore, adminHandlers, authHandlers, loginLimiter, secureCookies)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
