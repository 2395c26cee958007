package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Totals computes the consistency figures from one snapshot of committed state.
func (r *LedgerRepository) Totals(ctx context.Context) (*usecase.LedgerTotals, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	net := make(map[domain.AccountID]decimal.Decimal, len(s.accounts))
	for _, t := range s.transfers {
		net[t.ToAccountID] = net[t.ToAccountID].Add(t.Amount)
		net[t.FromAccountID] = net[t.FromAccountID].Sub(t.Amount)
	}

	totals := &usecase.LedgerTotals{
		TotalBalance:        decimal.Zero,
		TotalInitialBalance: decimal.Zero,
		NegativeAccounts:    []domain.AccountID{},
		MismatchedAccounts:  []domain.AccountID{},
		AccountCount:        int64(len(s.accounts)),
		TransferCount:       int64(len(s.transfers)),
	}

	for id, row := range s.accounts {
		a := row.account
		totals.TotalBalance = totals.TotalBalance.Add(a.Balance)
		totals.TotalInitialBalance = totals.TotalInitialBalance.Add(a.InitialBalance)

		if a.Balance.IsNegative() {
			totals.NegativeAccounts = append(totals.NegativeAccounts, id)
		}
		if !a.Balance.Equal(a.InitialBalance.Add(net[id])) {
			totals.MismatchedAccounts = append(totals.MismatchedAccounts, id)
		}
	}

	sortIDs(totals.NegativeAccounts)
	sortIDs(totals.MismatchedAccounts)

	return totals, nil
}

func sortIDs(ids []domain.AccountID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
