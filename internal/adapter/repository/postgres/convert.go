package postgres

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
	"github.com/iho/transferledger/internal/infrastructure/postgres/generated"
)

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timestamptzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time.UTC()
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:             domain.AccountID(row.ID),
		CreatedAt:      timestamptzToTime(row.CreatedAt),
		Balance:        numericToDecimal(row.Balance),
		InitialBalance: numericToDecimal(row.InitialBalance),
	}
}

func rowToTransfer(row generated.Transfer) *domain.Transfer {
	return &domain.Transfer{
		ID:            domain.TransferID(row.ID),
		FromAccountID: domain.AccountID(row.FromAccountID),
		ToAccountID:   domain.AccountID(row.ToAccountID),
		Amount:        numericToDecimal(row.Amount),
		TransferredAt: timestamptzToTime(row.TransferredAt),
	}
}

func accountIDsToInt64(ids []domain.AccountID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func int64sToAccountIDs(ids []int64) []domain.AccountID {
	out := make([]domain.AccountID, len(ids))
	for i, id := range ids {
		out[i] = domain.AccountID(id)
	}
	return out
}
