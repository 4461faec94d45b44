// Package money does cent-exact arithmetic over float64 amounts. All rounding
// goes through shopspring/decimal so that values like 5.005 round half away
// from zero to 5.01 instead of drifting in binary float space.
package money

import "github.com/shopspring/decimal"

// Round rounds an amount to 2 decimal places.
func Round(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}

// Mul returns price x quantity, rounded to cents.
func Mul(price float64, quantity int) float64 {
	v, _ := decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		Float64()
	return v
}

// Line is a (price, quantity) pair contributing to a total.
type Line struct {
	Price    float64
	Quantity int
}

// Total sums quantity x price over all lines and rounds the sum to cents.
// Rounding happens once, on the sum, not per line.
func Total(lines []Line) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	v, _ := sum.Round(2).Float64()
	return v
}
