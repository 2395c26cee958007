package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a ledger account holding a non-negative balance.
type Account struct {
	ID             AccountID
	CreatedAt      time.Time
	Balance        decimal.Decimal
	InitialBalance decimal.Decimal
}

// ValidateDebit checks if account can be debited by amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return InsufficientFunds(a.ID)
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
