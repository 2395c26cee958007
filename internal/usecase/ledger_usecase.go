package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when money was created, destroyed or
	// left an account negative.
	ErrInconsistentLedger = errors.New("ledger is inconsistent")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// ConsistencyReport is the outcome of a consistency check.
type ConsistencyReport struct {
	Consistent          bool
	TotalBalance        decimal.Decimal
	TotalInitialBalance decimal.Decimal
	Difference          decimal.Decimal
	AccountCount        int64
	TransferCount       int64
	NegativeAccounts    []domain.AccountID
	MismatchedAccounts  []domain.AccountID
	CheckedAt           time.Time
}

// CheckConsistency verifies that transfers only moved money: the sum of
// balances equals the sum of initial balances, no balance is negative and
// every balance is explained by its account's transfers.
//
// The report is always returned when the totals could be read; err is
// ErrInconsistentLedger when the report is not consistent.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totals, err := uc.ledgerRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		TotalBalance:        totals.TotalBalance,
		TotalInitialBalance: totals.TotalInitialBalance,
		Difference:          totals.TotalBalance.Sub(totals.TotalInitialBalance),
		AccountCount:        totals.AccountCount,
		TransferCount:       totals.TransferCount,
		NegativeAccounts:    nonNil(totals.NegativeAccounts),
		MismatchedAccounts:  nonNil(totals.MismatchedAccounts),
		CheckedAt:           time.Now().UTC(),
	}

	report.Consistent = report.Difference.IsZero() &&
		len(report.NegativeAccounts) == 0 &&
		len(report.MismatchedAccounts) == 0

	if !report.Consistent {
		return report, ErrInconsistentLedger
	}

	return report, nil
}

func nonNil(ids []domain.AccountID) []domain.AccountID {
	if ids == nil {
		return []domain.AccountID{}
	}
	return ids
}
