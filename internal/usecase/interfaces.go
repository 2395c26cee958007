package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// Create inserts the account and fills in its ID and CreatedAt.
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id domain.AccountID) (*domain.Account, error)
	// GetByIDsForUpdate locks the rows in ascending id order and returns
	// the ones that exist. Missing ids are simply absent from the result.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []domain.AccountID) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id domain.AccountID, balance decimal.Decimal) error
	List(ctx context.Context) ([]*domain.Account, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	// Create inserts the transfer and fills in its ID and TransferredAt.
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id domain.TransferID) (*domain.Transfer, error)
	// ListByAccount returns transfers sent or received by the account, newest first.
	ListByAccount(ctx context.Context, accountID domain.AccountID) ([]*domain.Transfer, error)
	List(ctx context.Context) ([]*domain.Transfer, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	Totals(ctx context.Context) (*LedgerTotals, error)
}

// LedgerTotals is the raw material of a consistency check.
type LedgerTotals struct {
	TotalBalance        decimal.Decimal
	TotalInitialBalance decimal.Decimal
	NegativeAccounts    []domain.AccountID
	// MismatchedAccounts have balance != initial + incoming - outgoing.
	MismatchedAccounts []domain.AccountID
	AccountCount       int64
	TransferCount      int64
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation while it fails with a transient conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// TransferCache caches committed transfers. Transfers are immutable, so
// entries never need invalidation.
type TransferCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, id domain.TransferID) (*domain.Transfer, error)
	Set(ctx context.Context, transfer *domain.Transfer) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete successfully.
	Release(ctx context.Context, key string) error
}

// Recorder receives engine outcomes for metrics.
type Recorder interface {
	AccountCreated()
	TransferCompleted(amount decimal.Decimal, duration time.Duration)
	TransferFailed(kind domain.ErrorKind)
	TransferRetried()
}
