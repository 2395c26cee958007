package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/transferledger/internal/adapter/http"
	"github.com/iho/transferledger/internal/adapter/http/handler"
	"github.com/iho/transferledger/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/transferledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/transferledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/transferledger/internal/adapter/repository/redis"
	"github.com/iho/transferledger/internal/infrastructure/config"
	"github.com/iho/transferledger/internal/infrastructure/metrics"
	"github.com/iho/transferledger/internal/infrastructure/postgres"
	"github.com/iho/transferledger/internal/infrastructure/redis"
	"github.com/iho/transferledger/internal/usecase"
)

// storage is one ledger backend.
type storage struct {
	txManager usecase.TransactionManager
	accounts  usecase.AccountRepository
	transfers usecase.TransferRepository
	ledger    usecase.LedgerRepository
	ping      func(ctx context.Context) error
	close     func()
}

// application is the fully wired HTTP service.
type application struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

// Close releases connections in reverse order of acquisition.
func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*application, error) {
	app := &application{}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, store.close)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	healthChecks := []handler.HealthCheck{{Name: cfg.StoreDriver, Ping: store.ping}}

	retrier := postgresRepo.NewRetrierWithConfig(postgresRepo.RetrierConfig{
		MaxRetries:      cfg.TransferMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
	}, log)

	transferOpts := []usecase.TransferOption{
		usecase.WithRetrier(retrier),
		usecase.WithRecorder(m),
		usecase.WithTransactionTimeout(cfg.TransferTimeout),
	}

	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisEnabled {
		client, err := redis.NewClientWithConfig(ctx, redis.ClientConfig{URL: cfg.RedisURL})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		app.closers = append(app.closers, func() { _ = client.Close() })
		log.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		transferOpts = append(transferOpts, usecase.WithTransferCache(redisRepo.NewTransferCache(client, cfg.TransferCacheTTL)))
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "redis", Ping: redisPing(client)})
	}

	accountUC := usecase.NewAccountUseCase(store.accounts, store.transfers, m)
	transferUC := usecase.NewTransferUseCase(store.txManager, store.accounts, store.transfers, transferOpts...)
	ledgerUC := usecase.NewLedgerUseCase(store.ledger)

	if cfg.RateLimitRPS > 0 {
		app.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
			WithHitCounter(m.RateLimitHits)
	}

	app.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		TransferHandler:  handler.NewTransferHandler(transferUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		HealthHandler:    handler.NewHealthHandler(healthChecks...),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      app.rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:           log,
	})

	return app, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		store := memoryRepo.NewStore()
		return &storage{
			txManager: store,
			accounts:  memoryRepo.NewAccountRepository(store),
			transfers: memoryRepo.NewTransferRepository(store),
			ledger:    memoryRepo.NewLedgerRepository(store),
			ping:      store.Ping,
			close:     func() {},
		}, nil

	case config.StorePostgres:
		if cfg.MigrateOnStart {
			if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		log.Info().Msg("connected to postgres")

		return &storage{
			txManager: postgresRepo.NewTxManager(pool, cfg.LockTimeout),
			accounts:  postgresRepo.NewAccountRepository(pool),
			transfers: postgresRepo.NewTransferRepository(pool),
			ledger:    postgresRepo.NewLedgerRepository(pool),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func redisPing(client *goredis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
