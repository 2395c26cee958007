package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/iho/transferledger/internal/infrastructure/postgres/generated"
	"github.com/iho/transferledger/internal/usecase"
)

type snapshotBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool snapshotBeginner
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool snapshotBeginner) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Totals reads every figure of the consistency check from one snapshot.
func (r *LedgerRepository) Totals(ctx context.Context) (*usecase.LedgerTotals, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, translateError("begin snapshot", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	q := generated.New(tx)

	sums, err := q.LedgerTotals(ctx)
	if err != nil {
		return nil, translateError("ledger totals", err)
	}

	negative, err := q.ListNegativeAccountIDs(ctx)
	if err != nil {
		return nil, translateError("negative accounts", err)
	}

	mismatched, err := q.ListMismatchedAccountIDs(ctx)
	if err != nil {
		return nil, translateError("mismatched accounts", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateError("end snapshot", err)
	}

	return &usecase.LedgerTotals{
		TotalBalance:        numericToDecimal(sums.TotalBalance),
		TotalInitialBalance: numericToDecimal(sums.TotalInitialBalance),
		NegativeAccounts:    int64sToAccountIDs(negative),
		MismatchedAccounts:  int64sToAccountIDs(mismatched),
		AccountCount:        sums.AccountCount,
		TransferCount:       sums.TransferCount,
	}, nil
}
