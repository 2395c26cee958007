package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is an immutable record of money moved between two accounts.
type Transfer struct {
	ID            TransferID
	FromAccountID AccountID
	ToAccountID   AccountID
	Amount        decimal.Decimal
	TransferredAt time.Time
}

// Validate runs the checks that depend only on the request itself.
func (t *Transfer) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSelfTransfer
	}

	return ValidateAmount(t.Amount)
}

// Involves reports whether the account is the sender or the receiver.
func (t *Transfer) Involves(id AccountID) bool {
	return t.FromAccountID == id || t.ToAccountID == id
}
