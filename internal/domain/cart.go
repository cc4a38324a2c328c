package domain

import "github.com/shopspring/decimal"

// LineItem is one product entry in a sale cart. UnitPrice and Stock are
// captured when the product is first added and never refreshed.
type LineItem struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
	Quantity  int
}

// Amount returns Quantity x UnitPrice.
func (l LineItem) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
