package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransfer_Validate(t *testing.T) {
	tests := []struct {
		name        string
		fromID      AccountID
		toID        AccountID
		amount      string
		expectError error
	}{
		{
			name:   "valid transfer",
			fromID: 1,
			toID:   2,
			amount: "100",
		},
		{
			name:   "two fractional digits",
			fromID: 1,
			toID:   2,
			amount: "0.01",
		},
		{
			name:        "same account",
			fromID:      1,
			toID:        1,
			amount:      "100",
			expectError: ErrSelfTransfer,
		},
		{
			name:        "same account wins over bad amount",
			fromID:      3,
			toID:        3,
			amount:      "-1",
			expectError: ErrSelfTransfer,
		},
		{
			name:        "zero amount",
			fromID:      1,
			toID:        2,
			amount:      "0",
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			fromID:      1,
			toID:        2,
			amount:      "-100",
			expectError: ErrInvalidAmount,
		},
		{
			name:        "three fractional digits",
			fromID:      1,
			toID:        2,
			amount:      "1.234",
			expectError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfer := &Transfer{
				FromAccountID: tt.fromID,
				ToAccountID:   tt.toID,
				Amount:        decimal.RequireFromString(tt.amount),
			}

			err := transfer.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestTransfer_Involves(t *testing.T) {
	transfer := &Transfer{FromAccountID: 1, ToAccountID: 2}

	if !transfer.Involves(1) || !transfer.Involves(2) {
		t.Error("expected sender and receiver to be involved")
	}
	if transfer.Involves(3) {
		t.Error("expected unrelated account not to be involved")
	}
}
