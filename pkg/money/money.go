package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a money input cannot be parsed
var ErrInvalidAmount = errors.New("amount must be a number with at most two decimal places")

// amountPattern accepts an optional minus sign and at most two decimal places
var amountPattern = regexp.MustCompile(`^-?(\d+(\.\d{0,2})?|\.\d{1,2})$`)

// ParseAmount converts user-entered money text (e.g. "12.5", "-3", ".99") into minor units
func ParseAmount(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if !amountPattern.MatchString(s) {
		return 0, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	return d.Shift(2).IntPart(), nil
}

// FormatDecimal renders minor units as a plain two-decimal string ("1250" -> "12.50")
func FormatDecimal(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// FormatCents renders minor units with a currency code ("USD 12.50")
func FormatCents(cents int64, currency string) string {
	if currency == "" {
		return FormatDecimal(cents)
	}
	return currency + " " + FormatDecimal(cents)
}

// DivRound divides n by d rounding half away from zero.
// A zero divisor yields 0.
func DivRound(n, d int64) int64 {
	if d == 0 {
		return 0
	}
	if d < 0 {
		n, d = -n, -d
	}

	q, r := n/d, n%d
	if r < 0 {
		r = -r
	}
	if 2*r >= d {
		if n < 0 {
			q--
		} else {
			q++
		}
	}
	return q
}
