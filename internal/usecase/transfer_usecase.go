package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
)

// ErrCommitOutcomeUnknown marks a commit that failed without a definite
// outcome: the transfer may or may not have been applied. Retriers must not
// run the attempt again.
var ErrCommitOutcomeUnknown = errors.New("commit outcome unknown")

// TransferUseCase is the transfer engine: the only component that mutates balances.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	retrier      Retrier
	cache        TransferCache
	recorder     Recorder
	txTimeout    time.Duration
}

// TransferOption configures optional collaborators of the engine.
type TransferOption func(*TransferUseCase)

// WithRetrier retries attempts that fail with a transient conflict.
func WithRetrier(r Retrier) TransferOption {
	return func(uc *TransferUseCase) { uc.retrier = r }
}

// WithTransferCache serves GetTransfer from a cache of committed transfers.
func WithTransferCache(c TransferCache) TransferOption {
	return func(uc *TransferUseCase) { uc.cache = c }
}

// WithRecorder reports outcomes to metrics.
func WithRecorder(r Recorder) TransferOption {
	return func(uc *TransferUseCase) { uc.recorder = r }
}

// WithTransactionTimeout bounds a single attempt, lock waits included.
func WithTransactionTimeout(d time.Duration) TransferOption {
	return func(uc *TransferUseCase) {
		if d > 0 {
			uc.txTimeout = d
		}
	}
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	opts ...TransferOption,
) *TransferUseCase {
	uc := &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		retrier:      singleAttempt{},
		recorder:     nopRecorder{},
		txTimeout:    DefaultTransactionTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// MakeTransferInput represents input for making a transfer.
type MakeTransferInput struct {
	FromAccountID domain.AccountID
	ToAccountID   domain.AccountID
	Amount        decimal.Decimal
}

// MakeTransfer moves amount from one account to another and records the transfer.
// Either the debit, the credit and the record all commit, or none of them does.
func (uc *TransferUseCase) MakeTransfer(ctx context.Context, input MakeTransferInput) (*domain.Transfer, error) {
	start := time.Now()

	transfer, err := uc.makeTransfer(ctx, input)
	if err != nil {
		uc.recorder.TransferFailed(domain.KindOf(err))
		return nil, err
	}

	uc.recorder.TransferCompleted(transfer.Amount, time.Since(start))

	if uc.cache != nil {
		// Best effort: a cold cache only costs a database read.
		_ = uc.cache.Set(ctx, transfer)
	}

	return transfer, nil
}

func (uc *TransferUseCase) makeTransfer(ctx context.Context, input MakeTransferInput) (*domain.Transfer, error) {
	// 0. Validate the request before touching storage
	request := domain.Transfer{
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	// 1. Sort account IDs (DEADLOCK PREVENTION)
	lockOrder := domain.LockOrder(input.FromAccountID, input.ToAccountID)

	var (
		result   *domain.Transfer
		attempts int
	)

	err := uc.retrier.Retry(ctx, func() error {
		attempts++
		if attempts > 1 {
			uc.recorder.TransferRetried()
		}

		transfer := request
		if err := uc.runTransfer(ctx, lockOrder, &transfer); err != nil {
			return err
		}

		result = &transfer
		return nil
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindUnavailable {
			return nil, asUnavailable(err)
		}
		return nil, err
	}

	return result, nil
}

// runTransfer is one attempt of the transaction script:
// lock both rows, re-validate, debit, credit, record, commit.
func (uc *TransferUseCase) runTransfer(ctx context.Context, lockOrder []domain.AccountID, transfer *domain.Transfer) error {
	ctx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	// 2. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	// No-op once committed. Detached from ctx so an expired attempt still rolls back.
	defer tx.Rollback(context.WithoutCancel(ctx))

	// 3. Lock accounts in sorted order
	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, lockOrder)
	if err != nil {
		return err
	}

	accountMap := buildAccountMap(accounts)

	fromAccount, ok := accountMap[transfer.FromAccountID]
	if !ok {
		return domain.AccountNotFound(transfer.FromAccountID)
	}

	toAccount, ok := accountMap[transfer.ToAccountID]
	if !ok {
		return domain.AccountNotFound(transfer.ToAccountID)
	}

	// 4. Authoritative funds check, under the lock
	if err := fromAccount.ValidateDebit(transfer.Amount); err != nil {
		return err
	}

	// 5. Debit and credit
	err = uc.accountRepo.UpdateBalance(ctx, tx, fromAccount.ID, fromAccount.ApplyDebit(transfer.Amount))
	if err != nil {
		return err
	}

	err = uc.accountRepo.UpdateBalance(ctx, tx, toAccount.ID, toAccount.ApplyCredit(transfer.Amount))
	if err != nil {
		return err
	}

	// 6. Record the transfer
	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return err
	}

	// 7. Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitOutcomeUnknown, err)
	}

	return nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id domain.TransferID) (*domain.Transfer, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	transfer, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, transfer)
	}

	return transfer, nil
}

// ListTransfers lists all transfers.
func (uc *TransferUseCase) ListTransfers(ctx context.Context) ([]*domain.Transfer, error) {
	return uc.transferRepo.List(ctx)
}

func buildAccountMap(accounts []*domain.Account) map[domain.AccountID]*domain.Account {
	m := make(map[domain.AccountID]*domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}

	return m
}

func asUnavailable(err error) error {
	if _, ok := err.(*domain.Error); ok {
		return err
	}
	return domain.Unavailable(err)
}
