// Package pricing computes checkout totals as a pure function of the cart
// snapshot. The rates are fixed business constants, not configuration.
package pricing

import "github.com/shopspring/decimal"

var (
	// TaxRate is the flat 5% applied to the subtotal.
	TaxRate = decimal.New(5, -2)
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = decimal.NewFromInt(200)
	// StandardShippingFee is the flat fee charged below the threshold.
	StandardShippingFee = decimal.NewFromInt(25)
)

type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Line is the extended price of a single cart row.
func Line(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Compute derives tax, shipping and total from a subtotal. Shipping is free
// only when the subtotal strictly exceeds the threshold.
func Compute(subtotal decimal.Decimal) Quote {
	tax := subtotal.Mul(TaxRate).Round(2)

	shipping := StandardShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
