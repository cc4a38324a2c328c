package domain

import "github.com/shopspring/decimal"

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Valid reports whether s is one of the statuses the backend accepts.
func (s ProductStatus) Valid() bool {
	return s == ProductActive || s == ProductInactive
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      ProductStatus   `json:"status"`
	Image       string          `json:"image,omitempty"`
}

func (p Product) IsActive() bool {
	return p.Status == ProductActive
}

// ProductInput carries the writable fields of a product for create and update.
type ProductInput struct {
	Name        string
	Description string
	SKU         string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Status      ProductStatus
}
