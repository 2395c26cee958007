package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             int64           `json:"id"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             int64(a.ID),
		Balance:        a.Balance,
		InitialBalance: a.InitialBalance,
		CreatedAt:      a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            int64           `json:"id"`
	From          int64           `json:"from"`
	To            int64           `json:"to"`
	Amount        decimal.Decimal `json:"amount"`
	TransferredAt time.Time       `json:"transferred_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:            int64(t.ID),
		From:          int64(t.FromAccountID),
		To:            int64(t.ToAccountID),
		Amount:        t.Amount,
		TransferredAt: t.TransferredAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// ConsistencyResponse is the result of a ledger consistency check.
type ConsistencyResponse struct {
	Consistent          bool            `json:"consistent"`
	TotalBalance        decimal.Decimal `json:"total_balance"`
	TotalInitialBalance decimal.Decimal `json:"total_initial_balance"`
	Difference          decimal.Decimal `json:"difference"`
	AccountCount        int64           `json:"account_count"`
	TransferCount       int64           `json:"transfer_count"`
	NegativeAccounts    []int64         `json:"negative_accounts"`
	MismatchedAccounts  []int64         `json:"mismatched_accounts"`
	CheckedAt           time.Time       `json:"checked_at"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:          r.Consistent,
		TotalBalance:        r.TotalBalance,
		TotalInitialBalance: r.TotalInitialBalance,
		Difference:          r.Difference,
		AccountCount:        r.AccountCount,
		TransferCount:       r.TransferCount,
		NegativeAccounts:    accountIDs(r.NegativeAccounts),
		MismatchedAccounts:  accountIDs(r.MismatchedAccounts),
		CheckedAt:           r.CheckedAt,
	}
}

func accountIDs(ids []domain.AccountID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int                `json:"total"`
}

// ListTransfersResponse wraps a list of transfers, newest first.
type ListTransfersResponse struct {
	Transfers []*TransferResponse `json:"transfers"`
	Total     int                 `json:"total"`
}
