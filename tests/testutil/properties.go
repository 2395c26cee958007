package testutil

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/usecase"
)

// Ledger bundles the use cases of one isolated ledger.
type Ledger struct {
	Accounts  *usecase.AccountUseCase
	Transfers *usecase.TransferUseCase
	Checker   *usecase.LedgerUseCase
}

// LedgerFactory returns a ledger with no accounts and no transfers.
type LedgerFactory func(t *testing.T) *Ledger

// RunLedgerProperties checks the ledger's behavioural guarantees against any store.
func RunLedgerProperties(t *testing.T, newLedger LedgerFactory) {
	t.Run("transfer scenario", func(t *testing.T) { testTransferScenario(t, newLedger(t)) })
	t.Run("transfer chain", func(t *testing.T) { testTransferChain(t, newLedger(t)) })
	t.Run("failed transfers change nothing", func(t *testing.T) { testAtomicity(t, newLedger(t)) })
	t.Run("self transfer always rejected", func(t *testing.T) { testNoSelfTransfer(t, newLedger(t)) })
	t.Run("scale enforced", func(t *testing.T) { testScale(t, newLedger(t)) })
	t.Run("reads are repeatable", func(t *testing.T) { testIdempotentReads(t, newLedger(t)) })
	t.Run("concurrent overdraft attempts", func(t *testing.T) { testNonNegativity(t, newLedger(t)) })
	t.Run("opposite directions do not deadlock", func(t *testing.T) { testOppositeDirections(t, newLedger(t)) })
	t.Run("concurrent equals sequential", func(t *testing.T) { testRaceEquivalence(t, newLedger(t)) })
}

// CreateAccount creates an account or fails the test.
func (l *Ledger) CreateAccount(t *testing.T, balance string) *domain.Account {
	t.Helper()
	account, err := l.Accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		InitialBalance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return account
}

// Transfer moves amount between accounts and returns the error unchanged.
func (l *Ledger) Transfer(from, to domain.AccountID, amount string) (*domain.Transfer, error) {
	return l.Transfers.MakeTransfer(context.Background(), usecase.MakeTransferInput{
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        decimal.RequireFromString(amount),
	})
}

// RequireBalance asserts the current balance of an account.
func (l *Ledger) RequireBalance(t *testing.T, id domain.AccountID, want string) {
	t.Helper()
	account, err := l.Accounts.GetAccount(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString(want)),
		"account %d: want balance %s, got %s", id, want, account.Balance)
}

// RequireConsistent runs the ledger consistency check.
func (l *Ledger) RequireConsistent(t *testing.T) {
	t.Helper()
	report, err := l.Checker.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
}

func testTransferScenario(t *testing.T, l *Ledger) {
	a := l.CreateAccount(t, "10")
	b := l.CreateAccount(t, "0")

	transfer, err := l.Transfer(a.ID, b.ID, "0.5")
	require.NoError(t, err)
	assert.True(t, transfer.Amount.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, a.ID, transfer.FromAccountID)
	assert.Equal(t, b.ID, transfer.ToAccountID)
	assert.NotZero(t, transfer.ID)
	assert.False(t, transfer.TransferredAt.IsZero())

	l.RequireBalance(t, a.ID, "9.5")
	l.RequireBalance(t, b.ID, "0.5")

	for _, id := range []domain.AccountID{a.ID, b.ID} {
		history, err := l.Accounts.GetAccountTransfers(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, transfer.ID, history[0].ID)
	}

	l.RequireConsistent(t)
}

func testTransferChain(t *testing.T, l *Ledger) {
	a := l.CreateAccount(t, "10")
	b := l.CreateAccount(t, "10")
	c := l.CreateAccount(t, "10")

	ab, err := l.Transfer(a.ID, b.ID, "1")
	require.NoError(t, err)
	bc, err := l.Transfer(b.ID, c.ID, "3")
	require.NoError(t, err)
	ca, err := l.Transfer(c.ID, a.ID, "6")
	require.NoError(t, err)

	l.RequireBalance(t, a.ID, "15")
	l.RequireBalance(t, b.ID, "8")
	l.RequireBalance(t, c.ID, "7")

	expected := map[domain.AccountID][]domain.TransferID{
		a.ID: {ca.ID, ab.ID},
		b.ID: {bc.ID, ab.ID},
		c.ID: {ca.ID, bc.ID},
	}
	for id, want := range expected {
		history, err := l.Accounts.GetAccountTransfers(context.Background(), id)
		require.NoError(t, err)

		got := make([]domain.TransferID, 0, len(history))
		for _, tr := range history {
			got = append(got, tr.ID)
		}
		assert.Equal(t, want, got, "history of account %d", id)
	}

	all, err := l.Transfers.ListTransfers(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	l.RequireConsistent(t)
}

func testAtomicity(t *testing.T, l *Ledger) {
	a := l.CreateAccount(t, "5")
	b := l.CreateAccount(t, "1")

	failures := []struct {
		from, to domain.AccountID
		amount   string
		want     error
	}{
		{a.ID, b.ID, "5.01", domain.ErrInsufficientFunds},
		{a.ID, b.ID, "0", domain.ErrInvalidAmount},
		{a.ID, b.ID, "-1", domain.ErrInvalidAmount},
		{a.ID, b.ID, "0.001", domain.ErrInvalidAmount},
		{a.ID, a.ID, "1", domain.ErrSelfTransfer},
		{a.ID, 999999, "1", domain.ErrAccountNotFound},
		{999999, b.ID, "1", domain.ErrAccountNotFound},
	}

	for _, f := range failures {
		_, err := l.Transfer(f.from, f.to, f.amount)
		assert.ErrorIs(t, err, f.want, "transfer %d -> %d of %s", f.from, f.to, f.amount)
	}

	l.RequireBalance(t, a.ID, "5")
	l.RequireBalance(t, b.ID, "1")

	transfers, err := l.Transfers.ListTransfers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, transfers)

	l.RequireConsistent(t)
}

func testNoSelfTransfer(t *testing.T, l *Ledger) {
	a := l.CreateAccount(t, "100")

	for _, amount := range []string{"0.01", "1", "100", "1000"} {
		_, err := l.Transfer(a.ID, a.ID, amount)
		assert.ErrorIs(t, err, domain.ErrSelfTransfer)
	}

	// The id does not need to exist.
	_, err := l.Transfer(424242, 424242, "1")
	assert.ErrorIs(t, err, domain.ErrSelfTransfer)

	l.RequireBalance(t, a.ID, "100")
}

func testScale(t *testing.T, l *Ledger) {
	_, err := l.Accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		InitialBalance: decimal.RequireFromString("1.234"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	a := l.CreateAccount(t, "1.23")
	b := l.CreateAccount(t, "0")

	_, err = l.Transfer(a.ID, b.ID, "1.234")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = l.Transfer(a.ID, b.ID, "1.23")
	require.NoError(t, err)
	l.RequireBalance(t, a.ID, "0")
	l.RequireBalance(t, b.ID, "1.23")
}

func testIdempotentReads(t *testing.T, l *Ledger) {
	ctx := context.Background()
	a := l.CreateAccount(t, "3")
	b := l.CreateAccount(t, "0")

	transfer, err := l.Transfer(a.ID, b.ID, "1")
	require.NoError(t, err)

	first, err := l.Accounts.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	second, err := l.Accounts.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.Balance.Equal(second.Balance))
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	t1, err := l.Transfers.GetTransfer(ctx, transfer.ID)
	require.NoError(t, err)
	t2, err := l.Transfers.GetTransfer(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, t1.ID, t2.ID)
	assert.True(t, t1.Amount.Equal(t2.Amount))
	assert.True(t, t1.TransferredAt.Equal(t2.TransferredAt))

	_, err = l.Transfers.GetTransfer(ctx, transfer.ID+1000)
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
}

func testNonNegativity(t *testing.T, l *Ledger) {
	source := l.CreateAccount(t, "100")
	sinks := []*domain.Account{l.CreateAccount(t, "0"), l.CreateAccount(t, "0"), l.CreateAccount(t, "0")}

	const attempts = 60 // 60 x 7 = 420, far beyond the 100 available

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		otherErrs []error
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.Transfer(source.ID, sinks[i%len(sinks)].ID, "7")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientFunds):
			default:
				otherErrs = append(otherErrs, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, otherErrs)
	assert.Equal(t, 14, succeeded, "100 / 7 transfers fit")

	l.RequireBalance(t, source.ID, "2")
	l.RequireConsistent(t)

	accounts, err := l.Accounts.ListAccounts(context.Background())
	require.NoError(t, err)
	for _, a := range accounts {
		assert.False(t, a.Balance.IsNegative(), "account %d went negative", a.ID)
	}
}

func testOppositeDirections(t *testing.T, l *Ledger) {
	a := l.CreateAccount(t, "1000")
	b := l.CreateAccount(t, "1000")

	var wg sync.WaitGroup
	errs := make(chan error, 200)

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := l.Transfer(a.ID, b.ID, "1")
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := l.Transfer(b.ID, a.ID, "1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	l.RequireBalance(t, a.ID, "1000")
	l.RequireBalance(t, b.ID, "1000")
	l.RequireConsistent(t)
}

type transferTemplate struct {
	from, to int
	amount   string
}

// randomTemplates never lets an account spend more than it started with, so
// the outcome does not depend on execution order.
func randomTemplates(seed int64, accounts, n int) []transferTemplate {
	rng := rand.New(rand.NewSource(seed))
	templates := make([]transferTemplate, 0, n)

	for len(templates) < n {
		from, to := rng.Intn(accounts), rng.Intn(accounts)
		if from == to {
			continue
		}
		cents := 1 + rng.Intn(100)
		templates = append(templates, transferTemplate{
			from:   from,
			to:     to,
			amount: fmt.Sprintf("%d.%02d", cents/100, cents%100),
		})
	}

	return templates
}

// testRaceEquivalence replays the same templates sequentially over one set of
// accounts and concurrently over an identically initialized second set.
func testRaceEquivalence(t *testing.T, l *Ledger) {
	const (
		accountCount = 5
		initial      = "1000"
	)
	templates := randomTemplates(42, accountCount, 200)

	seqAccounts := make([]*domain.Account, accountCount)
	conAccounts := make([]*domain.Account, accountCount)
	for i := range seqAccounts {
		seqAccounts[i] = l.CreateAccount(t, initial)
		conAccounts[i] = l.CreateAccount(t, initial)
	}

	for _, tpl := range templates {
		_, err := l.Transfer(seqAccounts[tpl.from].ID, seqAccounts[tpl.to].ID, tpl.amount)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(templates))
	work := make(chan transferTemplate)

	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tpl := range work {
				_, err := l.Transfer(conAccounts[tpl.from].ID, conAccounts[tpl.to].ID, tpl.amount)
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	for _, tpl := range templates {
		work <- tpl
	}
	close(work)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	for i := range seqAccounts {
		seq, err := l.Accounts.GetAccount(context.Background(), seqAccounts[i].ID)
		require.NoError(t, err)
		con, err := l.Accounts.GetAccount(context.Background(), conAccounts[i].ID)
		require.NoError(t, err)
		assert.True(t, seq.Balance.Equal(con.Balance), "account #%d: sequential %s, concurrent %s", i, seq.Balance, con.Balance)
	}

	l.RequireConsistent(t)
}
