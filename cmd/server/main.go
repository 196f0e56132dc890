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

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/arangodb"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/id"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/logger"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/common/otel"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/config"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/core/db"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/handler"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/middleware"
	httprouter "github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/http/router"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/metrics"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/mirror"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/queue"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/service"
	"github.com/jx79z5s4f9-bot/product-owner-ai-intelligence-hub-sub000/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "atlas server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	healthChecks := map[string]handler.Pinger{"database": database.Ping}
	registry := metrics.NewRegistry()
	registry.RegisterPoolStats(func() (int32, int32, int32) {
		s := database.Stats()
		return s.Total, s.Idle, s.Acquired
	})

	var (
		publisher service.InvalidationPublisher
		bus       *queue.InvalidationBus
	)
	if cfg.Pipeline.Enabled() {
		redisClient, err := connectRedis(ctx, cfg.Pipeline.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		slog.InfoContext(ctx, "redis connected", "channel", cfg.Pipeline.InvalidationChannel)

		origin := cfg.Pipeline.Consumer + "-" + uuid.NewString()[:8]
		bus = queue.NewInvalidationBus(redisClient, cfg.Pipeline.InvalidationChannel, origin)
		publisher = bus
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		slog.InfoContext(ctx, "redis disabled, graph invalidation is local only")
	}

	var graphMirror service.GraphMirror
	if cfg.ArangoDB.Enabled() {
		m, err := setupMirror(ctx, cfg.ArangoDB)
		if err != nil {
			// The mirror is optional; the API works without it.
			slog.WarnContext(ctx, "arangodb mirror disabled", "error", err)
		} else {
			graphMirror = m
			slog.InfoContext(ctx, "arangodb mirror enabled", "database", cfg.ArangoDB.Database)
		}
	}

	stores := store.NewStores(database.Queries())
	services := service.NewServices(stores, service.NewTxRunner(database), registry, publisher, graphMirror, cfg.Graph)

	if bus != nil {
		graphService := services.Graph()
		go func() {
			err := bus.Listen(ctx, func(ctx context.Context, projectID int64) {
				dropped := graphService.InvalidateLocal(projectID)
				slog.DebugContext(ctx, "remote graph invalidation", "project_id", projectID, "dropped", dropped)
			})
			if err != nil {
				slog.ErrorContext(ctx, "invalidation listener stopped", "error", err)
			}
		}()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, httprouter.RouterConfig{
		Metrics:      registry,
		HealthChecks: healthChecks,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, routerCfg httprouter.RouterConfig) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → RequestID tags logs → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, routerCfg)
	return router
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func setupMirror(ctx context.Context, cfg config.ArangoDBConfig) (*mirror.Mirror, error) {
	client, err := arangodb.New(ctx, arangodb.Config{
		URL:      cfg.URL,
		Username: cfg.Username,
		Password: cfg.Password,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	m := mirror.New(client)
	setupCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := m.Setup(setupCtx); err != nil {
		return nil, err
	}
	return m, nil
}

const banner = `
   ___  ________   ___   ____
  / _ |/_  __/ /  / _ | / __/
 / __ | / / / /__/ __ |_\ \
/_/ |_|/_/ /____/_/ |_/___/   server
`
