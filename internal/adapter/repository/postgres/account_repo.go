package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/infrastructure/postgres/generated"
	"github.com/iho/transferledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	row, err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		Balance:        decimalToNumeric(account.Balance),
		InitialBalance: decimalToNumeric(account.InitialBalance),
	})
	if err != nil {
		return translateError("create account", err)
	}

	*account = *rowToAccount(row)

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, int64(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.AccountNotFound(id)
		}

		return nil, translateError("get account", err)
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks the accounts with FOR UPDATE in ascending id order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []domain.AccountID) ([]*domain.Account, error) {
	pgTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}
	queries := r.queries.WithTx(pgTx.PgxTx())

	rows, err := queries.GetAccountsByIDsForUpdate(ctx, accountIDsToInt64(ids))
	if err != nil {
		return nil, translateError("lock accounts", err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id domain.AccountID, balance decimal.Decimal) error {
	pgTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}
	queries := r.queries.WithTx(pgTx.PgxTx())

	affected, err := queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:      int64(id),
		Balance: decimalToNumeric(balance),
	})
	if err != nil {
		return translateError("update balance", err)
	}

	if affected == 0 {
		return domain.AccountNotFound(id)
	}

	return nil
}

// List lists all accounts ordered by id.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, translateError("list accounts", err)
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}
