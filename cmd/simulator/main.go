package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/fanloophq/fanloop/internal/config"
	"github.com/fanloophq/fanloop/internal/engine"
	"github.com/fanloophq/fanloop/internal/memory"
	"github.com/fanloophq/fanloop/internal/observability/metrics"
	"github.com/fanloophq/fanloop/internal/phase"
	"github.com/fanloophq/fanloop/internal/simulator"
	"github.com/fanloophq/fanloop/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	var (
		conversations = flag.Int("conversations", 0, "runs per persona (overrides CONVERSATIONS)")
		workers       = flag.Int("workers", 0, "concurrent conversations (overrides WORKER_COUNT)")
		backend       = flag.String("backend", "", "memory backend: file, redis, or postgres (overrides MEMORY_BACKEND)")
	)
	flag.Parse()

	cfg := config.Load()
	if *conversations > 0 {
		cfg.Conversations = *conversations
	}
	if *workers > 0 {
		cfg.WorkerCount = *workers
	}
	if *backend != "" {
		cfg.MemoryBackend = *backend
	}

	logger := logging.New(cfg.LogLevel)

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		logger.Error("failed to build memory store", "error", err, "backend", cfg.MemoryBackend)
		os.Exit(1)
	}
	defer cleanup()

	engineMetrics := metrics.NewEngineMetrics(prometheus.NewRegistry())
	eng := engine.New(store, logger,
		engine.WithMetrics(engineMetrics),
		engine.WithMachine(phase.NewMachine(cfg.ColdThreshold)),
	)

	runner := simulator.NewRunner(eng, simulator.ScriptedGenerator{}, store, logger,
		simulator.WithWorkerCount(cfg.WorkerCount),
		simulator.WithMaxTurns(cfg.MaxTurns),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("interrupt received, cancelling run...")
		cancel()
	}()

	logger.Info("starting simulation",
		"backend", cfg.MemoryBackend,
		"workers", cfg.WorkerCount,
		"per_persona", cfg.Conversations,
	)

	results := runner.Run(ctx, simulator.DefaultPersonas(), cfg.Conversations)
	summary := simulator.Summarize(results)

	logger.Info("simulation finished",
		"conversations", summary.Conversations,
		"reveals", summary.Reveals,
		"conversions", summary.Conversions,
		"errors", summary.Errors,
	)
	fmt.Println(summary.String())

	if summary.Errors > 0 {
		os.Exit(1)
	}
}

// buildStore picks the memory backend from config. The returned cleanup
// closes whatever connection the backend holds.
func buildStore(cfg *config.Config) (memory.Store, func(), error) {
	caps := memory.Caps{
		History:             cfg.HistoryCap,
		Phrases:             cfg.PhraseCap,
		Topics:              cfg.TopicsCap,
		SimilarityThreshold: cfg.SimilarityThreshold,
	}

	switch cfg.MemoryBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		return memory.NewRedisStore(client, caps), func() { _ = client.Close() }, nil

	case "postgres":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		store, err := memory.NewPostgresStore(db, caps)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil

	case "file":
		store, err := memory.NewFileStore(cfg.MemoryDir, caps)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown memory backend %q", cfg.MemoryBackend)
	}
}
