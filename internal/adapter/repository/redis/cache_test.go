package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/transferledger/internal/domain"
)

func TestTransferCacheSetAndGet(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewTransferCache(client, time.Minute)
	ctx := context.Background()

	at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	transfer := &domain.Transfer{
		ID:            12,
		FromAccountID: 1,
		ToAccountID:   2,
		Amount:        decimal.RequireFromString("0.50"),
		TransferredAt: at,
	}

	require.NoError(t, cache.Set(ctx, transfer))

	got, err := cache.Get(ctx, 12)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, transfer.ID, got.ID)
	assert.Equal(t, transfer.FromAccountID, got.FromAccountID)
	assert.Equal(t, transfer.ToAccountID, got.ToAccountID)
	assert.True(t, transfer.Amount.Equal(got.Amount))
	assert.True(t, at.Equal(got.TransferredAt))
}

func TestTransferCacheMiss(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewTransferCache(client, time.Minute)

	got, err := cache.Get(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransferCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewTransferCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.Transfer{ID: 1, Amount: decimal.NewFromInt(1)}))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransferCacheCorruptEntry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewTransferCache(client, time.Minute)

	require.NoError(t, mr.Set("transfer:5", "not json"))

	_, err := cache.Get(context.Background(), 5)
	assert.Error(t, err)
}

func TestTransferCacheUnavailable(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewTransferCache(client, time.Minute)
	mr.Close()

	_, err := cache.Get(context.Background(), 1)
	assert.Error(t, err)
}
