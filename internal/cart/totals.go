package cart

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the sales tax applied to the subtotal
var TaxRate = decimal.NewFromFloat(0.10)

// Totals are the money amounts shown under the cart
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// UnitPrice is the item price plus all modifier prices
func (l Line) UnitPrice() decimal.Decimal {
	price := l.Item.Price
	for _, m := range l.Modifiers {
		price = price.Add(m.Price)
	}
	return price
}

// Calculate sums the lines and applies tax, rounded to cents
func Calculate(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
