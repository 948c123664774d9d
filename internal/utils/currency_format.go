package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyDisplayPlaces is the number of decimal places amounts are shown with.
const MoneyDisplayPlaces = 2

// FormatAmount renders an amount for API responses, e.g. 12.3456 -> "12.35", 5 -> "5.00".
// Rounding happens only here; stored amounts and sums keep full precision.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyDisplayPlaces)
}
