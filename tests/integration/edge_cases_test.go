//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgrepo "github.com/iho/transferledger/internal/adapter/repository/postgres"
	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/usecase"
	"github.com/iho/transferledger/tests/testutil"
)

func TestEdgeCases(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)

	t.Run("held row lock surfaces as temporarily unavailable", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		l := testDB.Ledger()

		a := l.CreateAccount(t, "10")
		b := l.CreateAccount(t, "0")

		// Hold a's row lock in a foreign transaction.
		holder, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		defer holder.Rollback(ctx)
		_, err = holder.Exec(ctx, "SELECT id FROM accounts WHERE id = $1 FOR UPDATE", int64(a.ID))
		require.NoError(t, err)

		accountRepo := pgrepo.NewAccountRepository(testDB.Pool)
		transferRepo := pgrepo.NewTransferRepository(testDB.Pool)
		engine := usecase.NewTransferUseCase(
			pgrepo.NewTxManager(testDB.Pool, 50*time.Millisecond),
			accountRepo,
			transferRepo,
			usecase.WithRetrier(pgrepo.NewRetrierWithConfig(pgrepo.RetrierConfig{
				MaxRetries:      2,
				InitialInterval: time.Millisecond,
				MaxInterval:     5 * time.Millisecond,
			}, testLogger())),
		)

		_, err = engine.MakeTransfer(ctx, usecase.MakeTransferInput{
			FromAccountID: a.ID,
			ToAccountID:   b.ID,
			Amount:        dec("1"),
		})
		assert.ErrorIs(t, err, domain.ErrTemporarilyUnavailable)

		require.NoError(t, holder.Rollback(ctx))
		l.RequireBalance(t, a.ID, "10")
		l.RequireBalance(t, b.ID, "0")
	})

	t.Run("largest representable amount", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		l := testDB.Ledger()

		a := l.CreateAccount(t, "999999999999999999.99")
		b := l.CreateAccount(t, "0")

		_, err := l.Transfer(a.ID, b.ID, "999999999999999999.99")
		require.NoError(t, err)
		l.RequireBalance(t, b.ID, "999999999999999999.99")

		_, err = l.Accounts.CreateAccount(ctx, usecase.CreateAccountInput{InitialBalance: dec("1000000000000000000")})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("schema rejects negative balances", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		l := testDB.Ledger()
		a := l.CreateAccount(t, "1")

		_, err := testDB.Pool.Exec(ctx, "UPDATE accounts SET balance = -1 WHERE id = $1", int64(a.ID))
		assert.Error(t, err)
	})

	t.Run("account history of unknown account", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		l := testDB.Ledger()

		_, err := l.Accounts.GetAccountTransfers(ctx, 12345)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)

		a := l.CreateAccount(t, "1")
		history, err := l.Accounts.GetAccountTransfers(ctx, a.ID)
		require.NoError(t, err)
		assert.NotNil(t, history)
		assert.Empty(t, history)
	})

	t.Run("migrations roll back and reapply", func(t *testing.T) {
		require.NoError(t, postgresDown(testDB.URL))
		require.NoError(t, postgresUp(testDB.URL))
	})
}
