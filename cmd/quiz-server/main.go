package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terra-clan/quiz-engine/internal/api"
	"github.com/terra-clan/quiz-engine/internal/auth"
	"github.com/terra-clan/quiz-engine/internal/cleanup"
	"github.com/terra-clan/quiz-engine/internal/config"
	"github.com/terra-clan/quiz-engine/internal/health"
	"github.com/terra-clan/quiz-engine/internal/query"
	"github.com/terra-clan/quiz-engine/internal/quiz"
	"github.com/terra-clan/quiz-engine/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (overrides QUIZ_CONFIG)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("starting quiz-engine",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Run database migrations
	slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
	if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize database repository
	repo, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
		DSN:      cfg.Database.DSN,
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		slog.Error("failed to create database repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("database connected successfully")

	registry := health.NewRegistry(5 * time.Second)
	registry.Register("postgres", health.CheckerFunc(repo.Ping))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Credential revocation list: Redis when configured, in-process otherwise
	var revoked auth.RevocationStore
	if cfg.Redis.Address != "" {
		store, err := auth.NewRedisRevocationStore(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err, "address", cfg.Redis.Address)
			os.Exit(1)
		}
		defer store.Close()
		registry.Register("redis", store)
		revoked = store
		slog.Info("redis connected successfully", "address", cfg.Redis.Address)
	} else {
		store := auth.NewMemoryRevocationStore()
		cleanup.NewCleaner("revocations", store, cfg.Auth.RevocationSweepInterval).Start(ctx)
		revoked = store
		slog.Warn("redis address not set, revocations are kept in memory")
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("failed to create token issuer", "error", err)
		os.Exit(1)
	}

	aliases, err := query.NewAliasTable(cfg.Query.SkillAliases)
	if err != nil {
		slog.Error("invalid skill aliases", "error", err)
		os.Exit(1)
	}

	service := quiz.NewService(repo, tokens, revoked, query.NewBuilder(aliases), cfg.Auth.BcryptCost)
	verifier := auth.NewVerifier(tokens, revoked, auth.NewResolver(repo))

	// Setup HTTP server
	server := api.NewServer(cfg.Server, service, verifier, registry)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("quiz-engine stopped")
}
