package domain

import "github.com/shopspring/decimal"

// MaxAmount is the largest magnitude a NUMERIC(15,2) column holds
var MaxAmount = decimal.RequireFromString("9999999999999.99")

// ValidateAmount checks that v is representable in cents and within
// MaxAmount. The sign is the caller's concern.
func ValidateAmount(field string, v decimal.Decimal) error {
	if !v.Equal(v.Round(2)) {
		return NewFieldError(field, ErrAmountPrecision)
	}
	if v.Abs().GreaterThan(MaxAmount) {
		return NewFieldError(field, ErrAmountTooLarge)
	}
	return nil
}

// ValidatePositiveAmount is ValidateAmount for values that must exceed zero
func ValidatePositiveAmount(field string, v decimal.Decimal) error {
	if err := ValidateAmount(field, v); err != nil {
		return err
	}
	if !v.IsPositive() {
		return NewFieldError(field, ErrInvalidAmount)
	}
	return nil
}
