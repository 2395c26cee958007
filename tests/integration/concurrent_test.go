//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/tests/testutil"
)

func TestConcurrentTransfers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)

	t.Run("100 concurrent transfers from same account no overdraft", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		l := testDB.Ledger()

		// Balance allows exactly 100 transfers of 10
		source := l.CreateAccount(t, "1000")
		dest := l.CreateAccount(t, "0")

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		for range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := l.Transfer(source.ID, dest.ID, "10"); err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(100), successCount.Load(), "errors: %d", errorCount.Load())
		l.RequireBalance(t, source.ID, "0")
		l.RequireBalance(t, dest.ID, "1000")
		l.RequireConsistent(t)
	})

	t.Run("overdraft attempts fail with insufficient funds only", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		l := testDB.Ledger()

		source := l.CreateAccount(t, "50")
		dest := l.CreateAccount(t, "0")

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			fundsErrors  atomic.Int32
			otherErrors  atomic.Int32
		)

		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := l.Transfer(source.ID, dest.ID, "10")
				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrInsufficientFunds):
					fundsErrors.Add(1)
				default:
					otherErrors.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), successCount.Load())
		assert.Equal(t, int32(15), fundsErrors.Load())
		assert.Zero(t, otherErrors.Load())
		l.RequireBalance(t, source.ID, "0")
		l.RequireBalance(t, dest.ID, "50")
	})

	t.Run("ring of accounts", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		l := testDB.Ledger()

		const n = 6
		ids := make([]domain.AccountID, n)
		for i := range ids {
			ids[i] = l.CreateAccount(t, "100").ID
		}

		var wg sync.WaitGroup
		for round := range 20 {
			for i := range n {
				wg.Add(1)
				go func(from, to domain.AccountID) {
					defer wg.Done()
					_, err := l.Transfer(from, to, "1")
					assert.NoError(t, err)
				}(ids[i], ids[(i+1+round%(n-1))%n])
			}
		}
		wg.Wait()

		// Each round is a rotation: every account sent 20 and received 20.
		for _, id := range ids {
			l.RequireBalance(t, id, "100")
		}
		l.RequireConsistent(t)
	})
}
