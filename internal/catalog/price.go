package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"marketplace/internal/api"
)

// ParsePrice converts form input into a whole, non-negative amount in the
// minor currency unit. Spaces used as thousands separators are ignored.
func ParsePrice(text string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '_' {
			return -1
		}
		return r
	}, strings.TrimSpace(text))
	if cleaned == "" {
		return 0, api.Invalid("price", "is required")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, api.Invalid("price", "%q is not a number", text)
	}
	if d.IsNegative() {
		return 0, api.Invalid("price", "must not be negative")
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, api.Invalid("price", "must be a whole amount")
	}
	if !d.LessThanOrEqual(decimal.NewFromInt(maxPrice)) {
		return 0, api.Invalid("price", "is too large")
	}
	return d.IntPart(), nil
}

const maxPrice = 1<<53 - 1
