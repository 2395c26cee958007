package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/iho/transferledger/internal/adapter/http"
	"github.com/iho/transferledger/internal/adapter/http/dto"
	"github.com/iho/transferledger/internal/adapter/http/handler"
	"github.com/iho/transferledger/internal/adapter/repository/memory"
	"github.com/iho/transferledger/internal/usecase"
)

// newLedgerServer serves the API over an in-memory ledger.
func newLedgerServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	accounts := memory.NewAccountRepository(store)
	transfers := memory.NewTransferRepository(store)

	srv := httptest.NewServer(httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(usecase.NewAccountUseCase(accounts, transfers, nil)),
		TransferHandler: handler.NewTransferHandler(usecase.NewTransferUseCase(store, accounts, transfers)),
		LedgerHandler:   handler.NewLedgerHandler(usecase.NewLedgerUseCase(memory.NewLedgerRepository(store))),
		HealthHandler:   handler.NewHealthHandler(),
		Logger:          zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)

	return srv
}

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL, "--timeout", "5s"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestAccountsAndTransfers(t *testing.T) {
	srv := newLedgerServer(t)

	out, err := execute(t, srv, "accounts", "create", "--balance", "10.00")
	require.NoError(t, err)
	var account dto.AccountResponse
	require.NoError(t, json.Unmarshal([]byte(out), &account))
	assert.Equal(t, int64(1), account.ID)

	_, err = execute(t, srv, "accounts", "create")
	require.NoError(t, err)

	out, err = execute(t, srv, "transfers", "make", "--from", "1", "--to", "2", "--amount", "0.5")
	require.NoError(t, err)
	var transfer dto.TransferResponse
	require.NoError(t, json.Unmarshal([]byte(out), &transfer))
	assert.Equal(t, "0.5", transfer.Amount.String())

	out, err = execute(t, srv, "accounts", "get", "2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &account))
	assert.Equal(t, "0.5", account.Balance.String())

	out, err = execute(t, srv, "accounts", "transfers", "1")
	require.NoError(t, err)
	var history []dto.TransferResponse
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	assert.Len(t, history, 1)

	out, err = execute(t, srv, "transfers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"from": 1`)

	out, err = execute(t, srv, "accounts", "list")
	require.NoError(t, err)
	var listed []dto.AccountResponse
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed, 2)

	_, err = execute(t, srv, "transfers", "get", "1")
	require.NoError(t, err)
}

func TestAPIErrorsAreReported(t *testing.T) {
	srv := newLedgerServer(t)

	_, err := execute(t, srv, "accounts", "create", "--balance", "1")
	require.NoError(t, err)
	_, err = execute(t, srv, "accounts", "create", "--balance", "1")
	require.NoError(t, err)

	_, err = execute(t, srv, "transfers", "make", "--from", "1", "--to", "2", "--amount", "5")
	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr), "expected apiError, got %v", err)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "insufficient_funds", apiErr.Code)

	_, err = execute(t, srv, "accounts", "get", "99")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.Status)

	_, err = execute(t, srv, "accounts", "get", "abc")
	require.Error(t, err)
	assert.False(t, errors.As(err, &apiErr), "invalid ids are rejected locally")
}

func TestLedgerConsistency(t *testing.T) {
	srv := newLedgerServer(t)

	_, err := execute(t, srv, "accounts", "create", "--balance", "3")
	require.NoError(t, err)

	out, err := execute(t, srv, "ledger", "consistency")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Consistency check PASSED"))
	assert.Contains(t, out, `"consistent": true`)
}

func TestMakeTransferRequiresFlags(t *testing.T) {
	srv := newLedgerServer(t)

	_, err := execute(t, srv, "transfers", "make", "--from", "1")
	require.Error(t, err)
}

func TestMigrateValidatesInput(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "up"})
	require.Error(t, cmd.Execute())

	err := runMigration("sideways", "postgres://localhost/db", zerolog.Nop())
	require.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printJSON(&out, struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
}

func TestClientTimeout(t *testing.T) {
	client := newAPIClient("http://example.invalid/", time.Second)
	assert.Equal(t, "http://example.invalid", client.baseURL)
	assert.Equal(t, time.Second, client.http.Timeout)
}
