//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/iho/transferledger/tests/testutil"
)

func TestLedgerPropertiesPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)

	testutil.RunLedgerProperties(t, func(t *testing.T) *testutil.Ledger {
		testDB.TruncateAll(context.Background())
		return testDB.Ledger()
	})
}
