// Package app wires together all dependencies and runs the storefront.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopverse/storefront/internal/catalog"
	"github.com/shopverse/storefront/internal/config"
	"github.com/shopverse/storefront/internal/event"
	handler "github.com/shopverse/storefront/internal/handler/http"
	redisrepo "github.com/shopverse/storefront/internal/repository/redis"
	"github.com/shopverse/storefront/internal/service"
	"github.com/shopverse/storefront/pkg/health"
	"github.com/shopverse/storefront/pkg/httpclient"
	pkgkafka "github.com/shopverse/storefront/pkg/kafka"
	"github.com/shopverse/storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	browse         *service.BrowseService
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampler,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Catalog client.
	catalogClient := catalog.NewClient(cfg.CatalogURL, httpclient.New(httpclient.DefaultConfig()), logger)

	// Build the dependency graph.
	sessionTTL := cfg.SessionTTL()
	cartRepo := redisrepo.NewCartRepository(rdb, sessionTTL, logger)
	wishlistRepo := redisrepo.NewWishlistRepository(rdb, sessionTTL, logger)
	eventProducer := event.NewProducer(producer, logger)

	browse := service.NewBrowseService(catalogClient, cfg.RecentlyPurchasedDays, logger)
	cartService := service.NewCartService(cartRepo, catalogClient, eventProducer, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, catalogClient, eventProducer, logger)
	suggestService := service.NewSuggestService(catalogClient, cfg.SuggestDebounce(), logger)
	assistantService := service.NewAssistantService(catalogClient, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)
	healthHandler.Register("catalog", func(ctx context.Context) error {
		if browse.SnapshotLoadedAt().IsZero() {
			return fmt.Errorf("no catalog snapshot loaded yet")
		}
		return nil
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Browse:         browse,
		Cart:           cartService,
		Wishlist:       wishlistService,
		Suggest:        suggestService,
		Assistant:      assistantService,
		Media:          catalogClient,
		HealthHandler:  healthHandler,
		Logger:         logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		PprofCIDRs:     cfg.PprofCIDRs,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		browse:         browse,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and the catalog snapshot refresher, blocking
// until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	// Load the first catalog snapshot before accepting traffic. A failure is
	// logged, not fatal: the storefront comes up with empty pages and the
	// background refresher recovers once the catalog is reachable.
	if err := a.browse.Refresh(ctx); err != nil {
		a.logger.Warn("initial catalog snapshot failed, starting with empty pages",
			slog.String("error", err.Error()),
		)
	}
	go a.browse.Run(ctx, a.cfg.SnapshotRefreshInterval())

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	// Flush pending spans.
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
