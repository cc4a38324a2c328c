package checkout

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
)

// Receipt is what the success screen shows for a completed sale.
type Receipt struct {
	InvoiceNumber string
	SaleID        int64
	IssuedAt      time.Time
	Items         []domain.LineItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Change        decimal.Decimal
}

// NewReceipt builds the receipt for s. Total is the captured amount charged;
// subtotal and tax are derived from the items.
func NewReceipt(s Session, calc pricing.Calculator, sale *domain.Sale, now time.Time) Receipt {
	totals := s.Totals(calc)
	r := Receipt{
		InvoiceNumber: InvoiceNumber(now),
		IssuedAt:      now,
		Items:         s.Cart.Items(),
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         s.Total,
		Change:        s.Change(),
	}
	if s.Payment != nil {
		r.PaymentMethod = s.Payment.Method.Label()
	}
	if sale != nil {
		r.SaleID = sale.ID
	}
	return r
}

// InvoiceNumber formats the last six digits of the millisecond clock.
func InvoiceNumber(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "INV-" + ms
}
