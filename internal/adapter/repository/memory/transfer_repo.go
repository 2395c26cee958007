package memory

import (
	"context"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	store *Store
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(store *Store) *TransferRepository {
	return &TransferRepository{store: store}
}

// Create stages the transfer in tx and fills in its id and timestamp.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	return t.addTransfer(transfer)
}

// GetByID retrieves a committed transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id domain.TransferID) (*domain.Transfer, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	transfer, ok := s.transfers[id]
	if !ok {
		return nil, domain.TransferNotFound(id)
	}

	out := *transfer
	return &out, nil
}

// ListByAccount lists transfers sent or received by an account, newest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID domain.AccountID) ([]*domain.Transfer, error) {
	return r.collect(func(t *domain.Transfer) bool { return t.Involves(accountID) }), nil
}

// List lists all transfers, newest first.
func (r *TransferRepository) List(ctx context.Context) ([]*domain.Transfer, error) {
	return r.collect(func(*domain.Transfer) bool { return true }), nil
}

func (r *TransferRepository) collect(match func(*domain.Transfer) bool) []*domain.Transfer {
	s := r.store
	s.mu.RLock()
	transfers := make([]*domain.Transfer, 0, len(s.transfers))
	for _, t := range s.transfers {
		if match(t) {
			out := *t
			transfers = append(transfers, &out)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(transfers)

	return transfers
}
