// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"govportal/internal/cache"
	"govportal/internal/config"
	"govportal/internal/handler"
	"govportal/internal/logging"
	"govportal/internal/middleware"
	"govportal/internal/render"
	"govportal/internal/service"
	"govportal/internal/store"
	"govportal/internal/token"
	"govportal/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	version.Version = appVersion

	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "govportal - Government Portal Content Manager\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GOVPORTAL_SESSION_SECRET     Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GOVPORTAL_DB_PATH            SQLite database path (default: ./data/govportal.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GOVPORTAL_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GOVPORTAL_SESSION_TTL_HOURS  Session token lifetime (default: 24)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GOVPORTAL_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GOVPORTAL_UPLOADS_DIR        Uploads directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GOVPORTAL_REDIS_URL          Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GOVPORTAL_DO_SEED            Create the default admin account on boot (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("govportal %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Navigation cache: Redis when configured, in-process otherwise
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	var contentCache cache.Cache
	if cfg.UseRedisCache() {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CachePrefix, cacheTTL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		contentCache = redisCache
		slog.Info("using redis cache")
	} else {
		contentCache = cache.NewMemoryCache(cacheTTL)
		slog.Info("using in-memory cache")
	}
	defer func() {
		if err := contentCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	issuer := token.NewIssuer([]byte(cfg.SessionSecret), cfg.SessionLifetime())
	nav := cache.NewNavigation(store.New(db), contentCache, cacheTTL)
	renderer := render.New()
	eventService := service.NewEventService(db)
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	// Handlers
	authHandler := handler.NewAuthHandler(db, issuer, loginProtection)
	pagesHandler := handler.NewPagesHandler(db, nav)
	newsHandler := handler.NewNewsHandler(db)
	noticesHandler := handler.NewNoticesHandler(db)
	procurementHandler := handler.NewProcurementHandler(db)
	usersHandler := handler.NewUsersHandler(db)
	mediaHandler := handler.NewMediaHandler(db, cfg.UploadsDir)
	dashboardHandler := handler.NewDashboardHandler(db)
	eventsHandler := handler.NewEventsHandler(db)
	frontendHandler := handler.NewFrontendHandler(db, renderer, nav)
	healthHandler := handler.NewHealthHandler(db)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.RequestPath)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	// Public surface
	r.Get("/healthz", healthHandler.Health)
	r.Get("/api/pages", frontendHandler.ListPages)
	r.Get("/api/pages/{slug}", frontendHandler.GetPage)
	r.Get("/api/news", frontendHandler.ListNews)
	r.Get("/api/news/{id}", frontendHandler.GetNews)
	r.Get("/api/notices", frontendHandler.ListNotices)
	r.Get("/api/notices/{id}", frontendHandler.GetNotice)
	r.Get("/api/navigation", frontendHandler.Navigation)

	// Uploaded files
	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Get("/uploads/*", uploadsFS.ServeHTTP)

	// Login is reachable without a session but rate limited; a caller who
	// already holds a valid token is sent to the dashboard.
	r.Group(func(r chi.Router) {
		r.Use(loginProtection.Middleware())
		r.Use(middleware.RedirectIfAuthenticated(issuer, "/admin/dashboard"))
		r.Post("/admin/login", authHandler.Login)
		r.Get("/admin/login", authHandler.LoginInfo)
	})

	// Everything else under /admin requires a verified session.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Gate(issuer))
		r.Use(csrfMiddleware)

		r.Post("/logout", authHandler.Logout)
		r.Get("/dashboard", dashboardHandler.Dashboard)

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", pagesHandler.List)
			r.Post("/", pagesHandler.Create)
			r.Get("/slug-check", pagesHandler.SlugCheck)
			r.Get("/{id}", pagesHandler.Get)
			r.Put("/{id}", pagesHandler.Update)
			r.Delete("/{id}", pagesHandler.Delete)
			r.Post("/{id}/publish", pagesHandler.Publish)
			r.Post("/{id}/unpublish", pagesHandler.Unpublish)
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", newsHandler.List)
			r.Post("/", newsHandler.Create)
			r.Get("/{id}", newsHandler.Get)
			r.Put("/{id}", newsHandler.Update)
			r.Delete("/{id}", newsHandler.Delete)
		})

		r.Post("/media", mediaHandler.Upload)

		// Admin-only surfaces
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminWithEventLog(eventService))

			r.Route("/notices", func(r chi.Router) {
				r.Get("/", noticesHandler.List)
				r.Post("/", noticesHandler.Create)
				r.Get("/{id}", noticesHandler.Get)
				r.Put("/{id}", noticesHandler.Update)
				r.Delete("/{id}", noticesHandler.Delete)
			})

			r.Route("/contractors", func(r chi.Router) {
				r.Get("/", procurementHandler.ListContractors)
				r.Post("/", procurementHandler.CreateContractor)
				r.Get("/{id}", procurementHandler.GetContractor)
				r.Put("/{id}", procurementHandler.UpdateContractor)
				r.Delete("/{id}", procurementHandler.DeleteContractor)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", procurementHandler.ListCategories)
				r.Post("/", procurementHandler.CreateCategory)
				r.Put("/{id}", procurementHandler.UpdateCategory)
				r.Delete("/{id}", procurementHandler.DeleteCategory)
			})

			r.Route("/procurements", func(r chi.Router) {
				r.Get("/", procurementHandler.ListProcurements)
				r.Post("/", procurementHandler.CreateProcurement)
				r.Get("/{id}", procurementHandler.GetProcurement)
				r.Put("/{id}", procurementHandler.UpdateProcurement)
				r.Delete("/{id}", procurementHandler.DeleteProcurement)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", usersHandler.List)
				r.Post("/", usersHandler.Create)
				r.Put("/{id}/password", usersHandler.UpdatePassword)
				r.Put("/{id}/role", usersHandler.UpdateRole)
			})

			r.Get("/events", eventsHandler.List)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
