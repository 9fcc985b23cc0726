package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits amounts are stored with.
const AmountPlaces = 2

// MaxAmount is the largest amount a single expense may carry. Converted
// totals must still fit in int64 minor units when formatted.
var MaxAmount = decimal.New(1, 12)

// AmountInRange reports whether d is within [0, MaxAmount].
func AmountInRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(MaxAmount)
}

// ParseAmount parses a non-negative decimal amount no larger than MaxAmount.
// Both "12.34" and "12,34" are accepted. The result is rounded to two places.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	d = RoundAmount(d)
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// RoundAmount rounds d to the stored precision.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}
