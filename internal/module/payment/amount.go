package payment

import (
	"fmt"

	"github.com/giftregistry/server/internal/shared/money"
)

// ParseAmount converts a decimal amount into minor units.
// Non-numeric and non-positive amounts fail with ErrInvalidInput.
func ParseAmount(raw string) (int64, error) {
	cents, err := money.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return cents, nil
}

// FormatAmount renders minor units as a two-decimal string.
func FormatAmount(cents int64) string {
	return money.Format(cents)
}
