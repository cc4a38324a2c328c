package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleItem struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// SaleRequest is the payload submitted once per completed checkout.
type SaleRequest struct {
	Items         []SaleItem
	Total         decimal.Decimal
	PaymentMethod string
}

type Sale struct {
	ID            int64
	Total         decimal.Decimal
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	PaymentMethod string
	Status        string
	Items         []SaleItem
	CreatedAt     time.Time
}
