package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
)

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		want        decimal.Decimal
		expectedErr error
	}{
		{name: "string balance", body: `{"balance":"10.00"}`, want: decimal.RequireFromString("10.00")},
		{name: "numeric balance", body: `{"balance":1.23}`, want: decimal.RequireFromString("1.23")},
		{name: "missing balance", body: `{}`, expectedErr: ErrMissingBalance},
		{name: "null balance", body: `{"balance":null}`, expectedErr: ErrMissingBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateAccountRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			got, err := req.ToUseCaseInput()
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.InitialBalance.Equal(tt.want) {
				t.Fatalf("balance = %s, want %s", got.InitialBalance, tt.want)
			}
		})
	}
}

func TestMakeTransferRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedErr error
	}{
		{name: "complete request", body: `{"from":1,"to":2,"amount":"0.5"}`},
		{name: "missing from", body: `{"to":2,"amount":"0.5"}`, expectedErr: ErrMissingFromAccount},
		{name: "missing to", body: `{"from":1,"amount":"0.5"}`, expectedErr: ErrMissingToAccount},
		{name: "missing amount", body: `{"from":1,"to":2}`, expectedErr: ErrMissingAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MakeTransferRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			got, err := req.ToUseCaseInput()
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.FromAccountID != domain.AccountID(1) || got.ToAccountID != domain.AccountID(2) {
				t.Fatalf("unexpected accounts %+v", got)
			}
			if !got.Amount.Equal(decimal.RequireFromString("0.5")) {
				t.Fatalf("unexpected amount %s", got.Amount)
			}
		})
	}
}

func TestMakeTransferRequest_RejectsNonNumericIDs(t *testing.T) {
	var req MakeTransferRequest
	if err := json.Unmarshal([]byte(`{"from":"abc","to":2,"amount":"1"}`), &req); err == nil {
		t.Fatal("expected decode error for non-numeric id")
	}
}
