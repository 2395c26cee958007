package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
)

// TransferCache implements usecase.TransferCache using Redis.
// Transfers never change once committed, so entries only expire.
type TransferCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTransferCache creates a new TransferCache.
func NewTransferCache(client *redis.Client, ttl time.Duration) *TransferCache {
	return &TransferCache{
		client: client,
		prefix: "transfer:",
		ttl:    ttl,
	}
}

type cachedTransfer struct {
	ID            int64           `json:"id"`
	From          int64           `json:"from"`
	To            int64           `json:"to"`
	Amount        decimal.Decimal `json:"amount"`
	TransferredAt time.Time       `json:"transferred_at"`
}

func (c *TransferCache) key(id domain.TransferID) string {
	return c.prefix + strconv.FormatInt(int64(id), 10)
}

// Get returns the cached transfer, or nil, nil on a miss.
func (c *TransferCache) Get(ctx context.Context, id domain.TransferID) (*domain.Transfer, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached transfer: %w", err)
	}

	var ct cachedTransfer
	if err := json.Unmarshal(raw, &ct); err != nil {
		return nil, fmt.Errorf("decode cached transfer: %w", err)
	}

	return &domain.Transfer{
		ID:            domain.TransferID(ct.ID),
		FromAccountID: domain.AccountID(ct.From),
		ToAccountID:   domain.AccountID(ct.To),
		Amount:        ct.Amount,
		TransferredAt: ct.TransferredAt,
	}, nil
}

// Set stores a committed transfer.
func (c *TransferCache) Set(ctx context.Context, transfer *domain.Transfer) error {
	raw, err := json.Marshal(cachedTransfer{
		ID:            int64(transfer.ID),
		From:          int64(transfer.FromAccountID),
		To:            int64(transfer.ToAccountID),
		Amount:        transfer.Amount,
		TransferredAt: transfer.TransferredAt,
	})
	if err != nil {
		return fmt.Errorf("encode transfer: %w", err)
	}

	return c.client.Set(ctx, c.key(transfer.ID), raw, c.ttl).Err()
}
