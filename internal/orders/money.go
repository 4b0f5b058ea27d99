package orders

import "github.com/shopspring/decimal"

// MaxAmount is the largest value a numeric(10,2) money column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

// AmountProblem explains why amount cannot be stored or charged as-is, or
// returns "" when it can. Sub-cent values are rejected, never rounded.
func AmountProblem(amount decimal.Decimal) string {
	switch {
	case !amount.Equal(amount.Truncate(2)):
		return "must have at most 2 decimal places"
	case amount.GreaterThan(MaxAmount):
		return "must not exceed " + MaxAmount.StringFixed(2)
	}
	return ""
}
