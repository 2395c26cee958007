package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/infrastructure/postgres/generated"
	"github.com/iho/transferledger/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db generated.DBTX) *TransferRepository {
	return &TransferRepository{
		queries: generated.New(db),
	}
}

// Create inserts the transfer inside tx and fills in its id and timestamp.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}
	queries := r.queries.WithTx(pgTx.PgxTx())

	row, err := queries.CreateTransfer(ctx, generated.CreateTransferParams{
		FromAccountID: int64(transfer.FromAccountID),
		ToAccountID:   int64(transfer.ToAccountID),
		Amount:        decimalToNumeric(transfer.Amount),
	})
	if err != nil {
		return translateError("create transfer", err)
	}

	*transfer = *rowToTransfer(row)

	return nil
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id domain.TransferID) (*domain.Transfer, error) {
	row, err := r.queries.GetTransferByID(ctx, int64(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.TransferNotFound(id)
		}

		return nil, translateError("get transfer", err)
	}

	return rowToTransfer(row), nil
}

// ListByAccount lists transfers sent or received by an account, newest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID domain.AccountID) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListTransfersByAccount(ctx, int64(accountID))
	if err != nil {
		return nil, translateError("list account transfers", err)
	}

	return rowsToTransfers(rows), nil
}

// List lists all transfers, newest first.
func (r *TransferRepository) List(ctx context.Context) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListTransfers(ctx)
	if err != nil {
		return nil, translateError("list transfers", err)
	}

	return rowsToTransfers(rows), nil
}

func rowsToTransfers(rows []generated.Transfer) []*domain.Transfer {
	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, rowToTransfer(row))
	}

	return transfers
}
