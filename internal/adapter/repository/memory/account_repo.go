package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.Balance.IsNegative() || account.InitialBalance.IsNegative() {
		return ErrNegativeBalance
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAccountID++
	account.ID = s.nextAccountID
	account.CreatedAt = s.now()

	s.accounts[account.ID] = &accountRow{
		account: *account,
		lock:    make(chan struct{}, 1),
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.accounts[id]
	if !ok {
		return nil, domain.AccountNotFound(id)
	}

	account := row.account
	return &account, nil
}

// GetByIDsForUpdate locks the accounts in ascending id order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []domain.AccountID) ([]*domain.Account, error) {
	t, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	return t.lockRows(ctx, ids)
}

// UpdateBalance stages a new balance for a row locked by tx.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id domain.AccountID, balance decimal.Decimal) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	return t.setBalance(id, balance)
}

// List lists all accounts ordered by id.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(s.accounts))
	for _, row := range s.accounts {
		account := row.account
		accounts = append(accounts, &account)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	return accounts, nil
}
