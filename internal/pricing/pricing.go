// Package pricing holds the money arithmetic used by carts and orders.
// Amounts are float64 at the edges and decimal inside, rounded to cents.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func round(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

// AfterDiscount applies a percentage discount (0..100) to a unit price.
func AfterDiscount(price, discountPct float64) float64 {
	if discountPct <= 0 {
		return round(decimal.NewFromFloat(price))
	}
	if discountPct > 100 {
		discountPct = 100
	}
	p := decimal.NewFromFloat(price)
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountPct).Div(hundred))
	return round(p.Mul(factor))
}

// Line is unit price times quantity.
func Line(unit float64, qty int) float64 {
	return round(decimal.NewFromFloat(unit).Mul(decimal.NewFromInt(int64(qty))))
}

// Sum adds amounts without accumulating float error.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return round(total)
}
