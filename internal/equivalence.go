package internal

import "github.com/shopspring/decimal"

var (
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// Equivalence is an amount expressed per month and per year
type Equivalence struct {
	Monthly decimal.Decimal
	Yearly  decimal.Decimal
}

// Equivalents converts an amount billed on the given cycle to monthly and yearly amounts.
// No rounding is applied.
func Equivalents(amount decimal.Decimal, cycle BillingCycle) Equivalence {
	if cycle == CycleYearly {
		return Equivalence{Monthly: amount.Div(monthsPerYear), Yearly: amount}
	}
	return Equivalence{Monthly: amount, Yearly: amount.Mul(monthsPerYear)}
}

// percentOf returns part/base*100, or 0 when base is zero
func percentOf(part, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return part.Div(base).Mul(hundred)
}
