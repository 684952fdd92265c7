package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/vendia/internal/chat"
	"github.com/gosuda/vendia/internal/config"
	"github.com/gosuda/vendia/internal/domain"
	"github.com/gosuda/vendia/internal/guard"
	"github.com/gosuda/vendia/internal/llm"
	"github.com/gosuda/vendia/internal/server"
	"github.com/gosuda/vendia/internal/store/postgres"
	redisstore "github.com/gosuda/vendia/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Load a local .env file when present; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	// Initialize structured logging from environment.
	logLevel := os.Getenv("VENDIA_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("VENDIA_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Graceful shutdown on SIGINT / SIGTERM. Background workers (registry
	// sweeper, persister, rate limiter cleanup) all hang off this context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Model collaborator for generation, moderation and embeddings.
	model := llm.New(llm.Options{
		APIKey:          cfg.OpenAI.APIKey,
		Model:           cfg.OpenAI.Model,
		ModerationModel: cfg.OpenAI.ModerationModel,
		EmbeddingModel:  cfg.OpenAI.EmbeddingModel,
		Temperature:     float32(cfg.OpenAI.Temperature),
	})

	// Long-term memory backend. A nil store disables retrieval and
	// persistence while the rest of the pipeline keeps working.
	var vecStore domain.VectorStore
	switch cfg.Chat.MemoryBackend {
	case config.MemoryBackendPostgres:
		if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
			return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
		}
		store, pgErr := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns), model) //nolint:gosec // bounds checked above
		if pgErr != nil {
			return pgErr
		}
		defer store.Close()
		vecStore = store
	case config.MemoryBackendRedis:
		rstore, redisErr := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, model)
		if redisErr != nil {
			return redisErr
		}
		defer func() { _ = rstore.Close() }()
		if idxErr := rstore.EnsureIndex(ctx); idxErr != nil {
			return idxErr
		}
		vecStore = rstore
	case config.MemoryBackendNone:
		log.Info().Msg("long-term memory disabled")
	}

	// Session registry with idle sweeping.
	registry := chat.NewRegistry(cfg.Chat.SessionIdleTTL, cfg.Chat.MaxSessions, cfg.Chat.MaxHistory)
	go registry.Run(ctx)

	// Background persistence worker.
	persister := chat.NewPersister(vecStore, model, cfg.Chat.MemoryEnabled, cfg.Chat.PersistQueueSize)
	go persister.Run(ctx)

	svc := chat.NewService(
		registry,
		guard.NewModerationGuard(model, cfg.Chat.ModerationFailClosed),
		chat.NewSummarizer(model, cfg.Chat.SummarizeThreshold),
		chat.NewAssembler(vecStore, cfg.Chat.MemoryK, cfg.Chat.KnowledgeK, cfg.Chat.ContextBudget),
		chat.NewAgent(model),
		persister,
	)

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, svc)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("memory_backend", cfg.Chat.MemoryBackend).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
