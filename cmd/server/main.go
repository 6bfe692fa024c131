package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shivajik/gmb-brifecase/internal/config"
	"github.com/shivajik/gmb-brifecase/internal/models"
	"github.com/shivajik/gmb-brifecase/internal/server/handlers"
	"github.com/shivajik/gmb-brifecase/internal/server/middleware"
	"github.com/shivajik/gmb-brifecase/internal/server/storage/sqlite"
	"github.com/shivajik/gmb-brifecase/internal/server/token"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		slog.Error("invalid server config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище: миграции применяются при старте
	store, err := sqlite.New(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	tokens := token.NewService([]byte(cfg.Auth.Secret))

	authHandler := handlers.NewAuthHandler(logger, store, store, tokens, cfg.Auth.SessionTTL)
	pagesHandler := handlers.NewPagesHandler(logger, store)
	menusHandler := handlers.NewMenusHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, version)

	requireAuth := middleware.AuthMiddleware(logger, tokens, store)

	r := chi.NewRouter()
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingWithSkip(logger, []string{"/health"}))
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigin))

	r.Get("/health", healthHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Лимит только на эндпоинты с подбором пароля
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimitMiddleware(
					cfg.RateLimit.AuthRequests,
					cfg.RateLimit.AuthWindow,
					logger,
				))
				r.Post("/login", authHandler.Login)
				r.Post("/register", authHandler.Register)
			})
			r.Post("/logout", authHandler.Logout)
			r.Post("/verify", authHandler.Verify)
		})

		// CMS API доступен только аутентифицированным пользователям
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/pages", func(r chi.Router) {
				r.Get("/", pagesHandler.List)
				r.Post("/", pagesHandler.Create)
				r.Get("/{pageID}", pagesHandler.Get)
				r.Put("/{pageID}", pagesHandler.Update)
				r.Delete("/{pageID}", pagesHandler.Delete)
			})

			r.Route("/menus", func(r chi.Router) {
				r.Get("/", menusHandler.List)
				r.Get("/{location}", menusHandler.GetByLocation)

				// Структуру навигации меняют только администраторы
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(logger, models.RoleAdmin))
					r.Post("/", menusHandler.Create)
					r.Put("/{location}", menusHandler.Update)
					r.Delete("/{location}", menusHandler.Delete)
				})
			})
		})
	})

	// Фоновая чистка истекших сессий. Корректность от нее не зависит:
	// живость проверяется фильтром по expires_at при каждом чтении
	go sessionReaper(ctx, logger, store)

	addr := net.JoinHostPort(cfg.Server.Address, cfg.Server.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// sessionReaper раз в час удаляет истекшие записи из session ledger
func sessionReaper(ctx context.Context, logger *slog.Logger, store *sqlite.Storage) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := store.DeleteExpiredSessions(ctx)
			if err != nil {
				logger.Error("failed to delete expired sessions", "error", err)
				continue
			}
			if count > 0 {
				logger.Info("expired sessions deleted", "count", count)
			}
		}
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
