//go:build integration

package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pgrepo "github.com/iho/transferledger/internal/adapter/repository/postgres"
	"github.com/iho/transferledger/internal/infrastructure/postgres"
	"github.com/iho/transferledger/internal/usecase"
)

// TestDB provides an isolated, migrated PostgreSQL database.
type TestDB struct {
	Pool *pgxpool.Pool
	URL  string
	t    *testing.T
}

// NewTestDB connects to DATABASE_URL when set, otherwise starts a disposable
// container. The schema is migrated and the pool closed on test cleanup.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = startPostgres(t)
	}

	require.NoError(t, postgres.RunMigrations(dbURL, zerolog.Nop()), "run migrations")

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    dbURL,
		MaxConns:       32,
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err, "connect to test database")
	t.Cleanup(pool.Close)

	return &TestDB{Pool: pool, URL: dbURL, t: t}
}

func startPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("ledger"),
		tcpostgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return connStr
}

// TruncateAll removes all data and restarts the id sequences.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `TRUNCATE TABLE transfers, accounts RESTART IDENTITY CASCADE`)
	require.NoError(db.t, err, "truncate tables")
}

// Ledger wires the use cases over this database the way the server does.
func (db *TestDB) Ledger(opts ...usecase.TransferOption) *Ledger {
	accountRepo := pgrepo.NewAccountRepository(db.Pool)
	transferRepo := pgrepo.NewTransferRepository(db.Pool)
	txManager := pgrepo.NewTxManager(db.Pool, 2*time.Second)

	opts = append([]usecase.TransferOption{
		usecase.WithRetrier(pgrepo.NewRetrierWithConfig(pgrepo.RetrierConfig{
			MaxRetries:      10,
			InitialInterval: 5 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			MaxElapsedTime:  30 * time.Second,
		}, zerolog.Nop())),
		usecase.WithTransactionTimeout(10 * time.Second),
	}, opts...)

	return &Ledger{
		Accounts:  usecase.NewAccountUseCase(accountRepo, transferRepo, nil),
		Transfers: usecase.NewTransferUseCase(txManager, accountRepo, transferRepo, opts...),
		Checker:   usecase.NewLedgerUseCase(pgrepo.NewLedgerRepository(db.Pool)),
	}
}
