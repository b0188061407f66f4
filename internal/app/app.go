package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ataullahmesbah/sooqra-one-sub002/internal/catalog"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/catalog/memory"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/catalog/postgres"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/config"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/event"
	handler "github.com/ataullahmesbah/sooqra-one-sub002/internal/handler/http"
	"github.com/ataullahmesbah/sooqra-one-sub002/internal/service"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/database"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/health"
	pkgkafka "github.com/ataullahmesbah/sooqra-one-sub002/pkg/kafka"
	"github.com/ataullahmesbah/sooqra-one-sub002/pkg/tracing"
)

// App wires all dependencies and runs the search service.
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	pool        *pgxpool.Pool
	redisClient *redis.Client
	consumers   []*pkgkafka.Consumer
	producer    *pkgkafka.Producer
	httpServer  *http.Server
	stopTracing func(context.Context) error
}

// catalogBackend is what the service layer needs from a storage backend.
type catalogBackend interface {
	catalog.Store
	catalog.CategoryResolver
}

// NewApp initializes every dependency. The context bounds startup work
// such as connecting to Postgres and running migrations.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: logger}

	stopTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "search-service",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	app.stopTracing = stopTracing

	healthHandler := health.NewHandler()

	var backend catalogBackend
	switch cfg.CatalogStore {
	case "postgres":
		pgCfg := cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, postgres.Migrations, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate read model: %w", err)
		}
		database.RegisterPoolMetrics(pool, "search")
		healthHandler.Register("postgres", pool.Ping)

		app.pool = pool
		backend = postgres.NewStore(pool)
		logger.Info("postgres read model initialized",
			slog.String("host", cfg.PostgresHost),
			slog.String("database", cfg.PostgresDB),
		)
	default:
		backend = memory.New()
		logger.Info("in-memory read model initialized")
	}

	// The suggestion cache is best-effort: when Redis is unreachable the
	// service runs without it.
	var suggestionCache *service.SuggestionCache
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		logger.Warn("redis unavailable, suggestion cache disabled",
			slog.String("error", err.Error()),
		)
	} else {
		app.redisClient = redisClient
		suggestionCache = service.NewSuggestionCache(redisClient, cfg.SuggestCacheTTL, logger)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	app.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	analytics := event.NewPublisher(app.producer, logger)

	searchService := service.NewSearchService(service.Deps{
		Store:     backend,
		Resolver:  backend,
		Logger:    logger,
		Analytics: analytics,
		Cache:     suggestionCache,
		Reindexer: catalog.NewClient(cfg.CatalogServiceURL, logger),
	})

	eventConsumer := event.NewConsumer(searchService, logger)
	for _, topic := range event.Topics() {
		app.consumers = append(app.consumers, pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			GroupID:  cfg.ConsumerGroup,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}, eventConsumer.Handle, logger))
	}
	logger.Info("kafka consumers initialized",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.Int("topics", len(event.Topics())),
	)

	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})

	router := handler.NewRouter(handler.RouterDeps{
		Search: searchService,
		Admin:  searchService,
		Health: healthHandler,
		Config: cfg,
		Logger: logger,
	})

	app.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP server and consumers, blocking until the context is
// canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	for _, c := range a.consumers {
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown stops every component, draining in-flight HTTP requests first.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("consumer close: %w", err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("producer close: %w", err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.stopTracing != nil {
		if err := a.stopTracing(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
		}
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
