package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vinay400/chat-buddy/internal/api"
	"github.com/Vinay400/chat-buddy/internal/archive"
	"github.com/Vinay400/chat-buddy/internal/auth"
	"github.com/Vinay400/chat-buddy/internal/config"
	"github.com/Vinay400/chat-buddy/internal/handlers"
	"github.com/Vinay400/chat-buddy/internal/hub"
	"github.com/Vinay400/chat-buddy/internal/store"
	"github.com/Vinay400/chat-buddy/internal/ws"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Initialize user store: PostgreSQL when configured, SQLite otherwise
	var users store.UserStore
	if cfg.DatabaseURL != "" {
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		users = pgStore
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		users = sqliteStore
		logger.Info().Msg("using SQLite user store")
	}
	defer users.Close()

	// Initialize message archive: Redis when configured, in-memory otherwise
	var msgArchive archive.Archive
	if cfg.RedisURL != "" {
		redisArchive, err := archive.NewRedisArchive(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		msgArchive = redisArchive
		logger.Info().Msg("connected to Redis")
	} else {
		msgArchive = archive.NewMemoryArchive()
		logger.Info().Msg("using in-memory message archive")
	}
	defer msgArchive.Close()

	// Wire services
	authSvc := auth.NewService(users, auth.NewTokenManager(cfg.JWTSecret))
	coordinator := hub.NewCoordinator(logger, msgArchive)
	wsHandler := ws.NewHandler(logger, coordinator, authSvc, cfg.AllowedOrigins)
	h := handlers.NewHandler(authSvc, users, msgArchive, coordinator)

	// Create router
	router := api.NewRouter(logger, h, wsHandler, cfg.AllowedOrigins)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting chat-buddy server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	// WebSocket connections are hijacked and outlive server.Shutdown;
	// close them through the coordinator.
	coordinator.Shutdown()

	logger.Info().Msg("server stopped")
}
