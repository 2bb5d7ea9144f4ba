package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const PriceScale = 2

type Product struct {
	SKU         string
	Name        string
	Description *string
	Category    string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidPrice reports whether p is non-negative and carries at most two
// fractional digits.
func ValidPrice(p decimal.Decimal) bool {
	if p.IsNegative() {
		return false
	}
	return p.Equal(p.Truncate(PriceScale))
}
