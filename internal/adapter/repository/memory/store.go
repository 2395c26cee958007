// Package memory is a process-local ledger store. It offers the same row
// locking and commit semantics as the postgres adapter and backs
// STORE_DRIVER=memory and the engine's property tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/usecase"
)

var (
	// ErrForeignTransaction is returned when a repository receives a
	// transaction that was not started by this store.
	ErrForeignTransaction = errors.New("memory: transaction was not started by this store")
	// ErrTxDone is returned when a finished transaction is used again.
	ErrTxDone = errors.New("memory: transaction already committed or rolled back")
	// ErrRowNotLocked is returned when a transaction writes a row it did not lock.
	ErrRowNotLocked = errors.New("memory: row is not locked by this transaction")
	// ErrNegativeBalance mirrors the balance >= 0 check constraint.
	ErrNegativeBalance = errors.New("memory: balance would become negative")
)

type accountRow struct {
	account domain.Account
	// lock is a one-slot semaphore held for the life of a transaction.
	lock chan struct{}
}

// Store holds committed ledger state.
type Store struct {
	mu             sync.RWMutex
	accounts       map[domain.AccountID]*accountRow
	transfers      map[domain.TransferID]*domain.Transfer
	nextAccountID  domain.AccountID
	nextTransferID domain.TransferID
	now            func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[domain.AccountID]*accountRow),
		transfers: make(map[domain.TransferID]*domain.Transfer),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Ping always succeeds; it lets the store stand in for a database in readiness checks.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Begin implements usecase.TransactionManager.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Unavailable(err)
	}

	return &Tx{
		store:    s,
		locked:   make(map[domain.AccountID]*accountRow),
		balances: make(map[domain.AccountID]decimal.Decimal),
	}, nil
}

func (s *Store) row(id domain.AccountID) (*accountRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.accounts[id]
	return r, ok
}

// Tx is a transaction over the store. Writes stay private until Commit.
type Tx struct {
	store    *Store
	mu       sync.Mutex
	locked   map[domain.AccountID]*accountRow
	order    []domain.AccountID
	balances map[domain.AccountID]decimal.Decimal
	pending  []*domain.Transfer
	done     bool
}

// lockRows acquires the row locks of ids in ascending order. Rows that do not
// exist are skipped. Waiting honours ctx.
func (t *Tx) lockRows(ctx context.Context, ids []domain.AccountID) ([]*domain.Account, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil, ErrTxDone
	}

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range domain.LockOrder(ids...) {
		r, ok := t.store.row(id)
		if !ok {
			continue
		}

		if _, held := t.locked[id]; !held {
			select {
			case r.lock <- struct{}{}:
			case <-ctx.Done():
				return nil, domain.Unavailable(ctx.Err())
			}
			t.locked[id] = r
			t.order = append(t.order, id)
		}

		accounts = append(accounts, t.read(r))
	}

	return accounts, nil
}

// read returns the row as this transaction sees it.
func (t *Tx) read(r *accountRow) *domain.Account {
	t.store.mu.RLock()
	account := r.account
	t.store.mu.RUnlock()

	if balance, ok := t.balances[account.ID]; ok {
		account.Balance = balance
	}

	return &account
}

func (t *Tx) setBalance(id domain.AccountID, balance decimal.Decimal) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}
	if _, held := t.locked[id]; !held {
		if _, exists := t.store.row(id); !exists {
			return domain.AccountNotFound(id)
		}
		return ErrRowNotLocked
	}
	if balance.IsNegative() {
		return ErrNegativeBalance
	}

	t.balances[id] = balance
	return nil
}

func (t *Tx) addTransfer(transfer *domain.Transfer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}

	s := t.store
	s.mu.Lock()
	_, fromExists := s.accounts[transfer.FromAccountID]
	_, toExists := s.accounts[transfer.ToAccountID]
	if fromExists && toExists {
		// Ids are consumed even if the transaction later rolls back, like a sequence.
		s.nextTransferID++
		transfer.ID = s.nextTransferID
		transfer.TransferredAt = s.now()
	}
	s.mu.Unlock()

	if !fromExists {
		return domain.AccountNotFound(transfer.FromAccountID)
	}
	if !toExists {
		return domain.AccountNotFound(transfer.ToAccountID)
	}

	stored := *transfer
	t.pending = append(t.pending, &stored)
	return nil
}

// Commit publishes the buffered writes atomically and releases the row locks.
func (t *Tx) Commit(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTxDone
	}

	s := t.store
	s.mu.Lock()
	for id, balance := range t.balances {
		s.accounts[id].account.Balance = balance
	}
	for _, transfer := range t.pending {
		s.transfers[transfer.ID] = transfer
	}
	s.mu.Unlock()

	t.release()
	return nil
}

// Rollback discards the buffered writes. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}

	t.release()
	return nil
}

func (t *Tx) release() {
	for i := len(t.order) - 1; i >= 0; i-- {
		<-t.locked[t.order[i]].lock
	}
	t.locked = nil
	t.order = nil
	t.balances = nil
	t.pending = nil
	t.done = true
}

func txFrom(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, ErrForeignTransaction
	}
	return t, nil
}

func sortNewestFirst(transfers []*domain.Transfer) {
	sort.Slice(transfers, func(i, j int) bool {
		a, b := transfers[i], transfers[j]
		if !a.TransferredAt.Equal(b.TransferredAt) {
			return a.TransferredAt.After(b.TransferredAt)
		}
		return a.ID > b.ID
	})
}
