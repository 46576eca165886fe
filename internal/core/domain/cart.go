package domain

import "github.com/shopspring/decimal"

// CartLine is one product in the cart. A persisted line always has
// Quantity >= 1; setting it to zero means removing the line.
type CartLine struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price × quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotal sums price × quantity over all lines.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// FormatMoney renders an amount with two decimals, e.g. "25.00".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
