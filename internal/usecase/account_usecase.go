package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo  AccountRepository
	transferRepo TransferRepository
	recorder     Recorder
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, transferRepo TransferRepository, recorder Recorder) *AccountUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &AccountUseCase{
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		recorder:     recorder,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	InitialBalance decimal.Decimal
}

// CreateAccount creates a new account holding the initial balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateInitialBalance(input.InitialBalance); err != nil {
		return nil, err
	}

	account := &domain.Account{
		Balance:        input.InitialBalance,
		InitialBalance: input.InitialBalance,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.recorder.AccountCreated()

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id domain.AccountID) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists all accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx)
}

// GetAccountTransfers lists the transfers of an account, newest first.
// An unknown account yields AccountNotFound; a known account without
// activity yields an empty, non-nil slice.
func (uc *AccountUseCase) GetAccountTransfers(ctx context.Context, id domain.AccountID) ([]*domain.Transfer, error) {
	// Accounts are never deleted, so the existence check cannot go stale.
	if _, err := uc.accountRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	transfers, err := uc.transferRepo.ListByAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if transfers == nil {
		transfers = []*domain.Transfer{}
	}

	return transfers, nil
}
