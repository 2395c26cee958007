package dto

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/usecase"
)

// Request validation errors. They are reported as invalid input before the
// ledger is called.
var (
	ErrMissingBalance     = errors.New("balance is required")
	ErrMissingFromAccount = errors.New("from is required")
	ErrMissingToAccount   = errors.New("to is required")
	ErrMissingAmount      = errors.New("amount is required")
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Balance *decimal.Decimal `json:"balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() (usecase.CreateAccountInput, error) {
	if r.Balance == nil {
		return usecase.CreateAccountInput{}, ErrMissingBalance
	}
	return usecase.CreateAccountInput{InitialBalance: *r.Balance}, nil
}

// MakeTransferRequest represents a request to move money between accounts.
type MakeTransferRequest struct {
	From   *int64           `json:"from"`
	To     *int64           `json:"to"`
	Amount *decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *MakeTransferRequest) ToUseCaseInput() (usecase.MakeTransferInput, error) {
	switch {
	case r.From == nil:
		return usecase.MakeTransferInput{}, ErrMissingFromAccount
	case r.To == nil:
		return usecase.MakeTransferInput{}, ErrMissingToAccount
	case r.Amount == nil:
		return usecase.MakeTransferInput{}, ErrMissingAmount
	}

	return usecase.MakeTransferInput{
		FromAccountID: domain.AccountID(*r.From),
		ToAccountID:   domain.AccountID(*r.To),
		Amount:        *r.Amount,
	}, nil
}
