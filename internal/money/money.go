package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// Tolerance is the rounding slack allowed when comparing monetary sums,
// one cent.
var Tolerance = decimal.New(1, -2)

// Parse converts a decimal string like "50.00" into an amount with at
// most two decimal places. All monetary arithmetic stays in fixed-point
// decimals; binary floats never enter the system.
func Parse(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if value.Exponent() < -2 {
		return decimal.Zero, ErrTooManyDecimals
	}
	return value, nil
}

// ParsePositive is Parse restricted to amounts strictly greater than zero.
func ParsePositive(input string) (decimal.Decimal, error) {
	value, err := Parse(input)
	if err != nil {
		return decimal.Zero, err
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	return value, nil
}

func Format(value decimal.Decimal) string {
	return value.StringFixed(2)
}

// SplitEven divides total into n shares that sum exactly to total.
// Remainder cents are allocated one each to the earliest shares
// (largest-remainder allocation), so the split is deterministic for a
// given participant order.
func SplitEven(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	cents := total.Mul(decimal.New(1, 2)).IntPart()
	base := cents / int64(n)
	leftover := cents - base*int64(n)
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		c := base
		if int64(i) < leftover {
			c++
		}
		shares[i] = decimal.New(c, -2)
	}
	return shares
}

// SumWithin reports whether got differs from want by at most Tolerance.
func SumWithin(got, want decimal.Decimal) bool {
	return got.Sub(want).Abs().LessThanOrEqual(Tolerance)
}
