package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/id"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/otel"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/config"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/metrics"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/queue"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/store"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger.Setup(cfg)

	slog.InfoContext(ctx, "atlas worker starting",
		"env", cfg.Env,
		"stream", cfg.Pipeline.ObservationStream,
		"consumer_group", cfg.Pipeline.ObservationGroup,
		"consumer_name", cfg.Pipeline.Consumer)

	// Different node id than the server
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected")

	consumer, err := queue.NewRedisConsumer(redisClient, queue.ConsumerConfig{
		Stream:       cfg.Pipeline.ObservationStream,
		Group:        cfg.Pipeline.ObservationGroup,
		Consumer:     cfg.Pipeline.Consumer,
		DLQStream:    cfg.Pipeline.ObservationDLQ,
		BatchSize:    50,
		Block:        5 * time.Second,
		MaxAttempts:  cfg.Pipeline.MaxAttempts,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	registry := metrics.NewRegistry()
	registry.RegisterPoolStats(func() (int32, int32, int32) {
		s := database.Stats()
		return s.Total, s.Idle, s.Acquired
	})
	bus := queue.NewInvalidationBus(redisClient, cfg.Pipeline.InvalidationChannel, cfg.Pipeline.Consumer)
	services := service.NewServices(
		store.NewStores(database.Queries()),
		service.NewTxRunner(database),
		registry,
		bus,
		nil,
		cfg.Graph,
	)

	w := worker.New(consumer, services.Suggestions(), registry, worker.Config{
		MaxAttempts: cfg.Pipeline.MaxAttempts,
	})

	reclaimer := worker.NewReclaimer(consumer, worker.ReclaimerConfig{
		Consumer:  cfg.Pipeline.Consumer + "-reclaimer",
		MinIdle:   5 * time.Minute,
		Interval:  time.Minute,
		BatchSize: 10,
	}, w.Handle)

	metricsServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           registry.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "metrics server error", "error", err)
		}
	}()

	errCh := make(chan error, 2)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go func() {
		reclaimer.Run(ctx)
		errCh <- nil
	}()

	slog.InfoContext(ctx, "worker initialized and running", "metrics_port", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Reclaimer first: it is idle most of the time.
	reclaimer.Stop()
	w.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
		}
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(ctx, "metrics server shutdown error", "error", err)
	}
	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
   ___  ________   ___   ____
  / _ |/_  __/ /  / _ | / __/
 / __ | / / / /__/ __ |_\ \
/_/ |_|/_/ /____/_/ |_/___/   worker
`
