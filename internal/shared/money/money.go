// Package money converts between decimal amounts and integer minor units.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned for non-numeric, non-finite or non-positive amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// Parse converts a decimal major-unit amount into minor units,
// rounding half away from zero. A positive amount that rounds to zero
// minor units, such as 0.004, is rejected as ErrInvalidAmount.
func Parse(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount must be a number", ErrInvalidAmount)
	}
	return ToCents(f)
}

// ToCents is Parse for an already-parsed value.
func ToCents(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: amount must be a number", ErrInvalidAmount)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if f > math.MaxInt64/100 {
		return 0, fmt.Errorf("%w: amount too large", ErrInvalidAmount)
	}

	cents := int64(math.Round(f * 100))
	// Checkout sessions cannot be priced at zero.
	if cents < 1 {
		return 0, fmt.Errorf("%w: amount must be at least 0.01", ErrInvalidAmount)
	}
	return cents, nil
}

// Format renders minor units as a two-decimal string, e.g. 15000 -> "150.00".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
