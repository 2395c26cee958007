package domain

import (
	"github.com/shopspring/decimal"
)

// Validation constants
const (
	// MaxScale is the number of fractional digits accepted for any amount.
	MaxScale = 2
	// MaxIntegerDigits is what fits into NUMERIC(20,2).
	MaxIntegerDigits = 18
)

var maxAmountExclusive = decimal.New(1, MaxIntegerDigits)

// Scale returns the number of fractional digits in the representation of d.
// "1.50" has scale 2, "1.5" has scale 1 and "100" has scale 0.
func Scale(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}

func validateScaleAndRange(amount decimal.Decimal) error {
	if Scale(amount) > MaxScale {
		return InvalidAmount("number of digits to the right of the decimal point should be <= %d", MaxScale)
	}

	if amount.Sign() == 0 && amount.Exponent() <= MaxIntegerDigits {
		return nil
	}

	// Digit count first: comparing a huge exponent rescales to a huge integer.
	if integerDigits(amount) > MaxIntegerDigits || amount.Abs().GreaterThanOrEqual(maxAmountExclusive) {
		return InvalidAmount("amount must be less than %s", maxAmountExclusive.String())
	}

	return nil
}

// integerDigits is an upper bound on the digits left of the decimal point.
func integerDigits(d decimal.Decimal) int64 {
	return int64(d.NumDigits()) + int64(d.Exponent())
}

// ValidateInitialBalance validates the opening balance of a new account.
func ValidateInitialBalance(balance decimal.Decimal) error {
	if balance.Sign() < 0 {
		return InvalidAmount("amount should be non-negative")
	}

	return validateScaleAndRange(balance)
}

// ValidateAmount validates a transfer amount.
// Out-of-scale amounts are rejected, never rounded.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return InvalidAmount("cannot transfer non-positive amount")
	}

	return validateScaleAndRange(amount)
}
