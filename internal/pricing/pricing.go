// Package pricing derives sale totals from cart line items.
package pricing

import (
	"github.com/shopspring/decimal"

	"pos-terminal/internal/domain"
)

// DefaultTaxRate is the flat sales tax applied to every cart.
var DefaultTaxRate = decimal.RequireFromString("0.15")

// Default is a Calculator using DefaultTaxRate.
var Default = New(DefaultTaxRate)

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Calculator computes subtotal, tax and total. It never rounds; rounding is a
// presentation concern.
type Calculator struct {
	rate decimal.Decimal
}

func New(rate decimal.Decimal) Calculator {
	return Calculator{rate: rate}
}

func (c Calculator) Rate() decimal.Decimal {
	return c.rate
}

// Compute returns the totals for items.
func (c Calculator) Compute(items []domain.LineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
	}
	tax := subtotal.Mul(c.rate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Change returns received - total. A negative result means the amount
// tendered does not cover the total.
func Change(received, total decimal.Decimal) decimal.Decimal {
	return received.Sub(total)
}
