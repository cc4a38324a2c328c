package httpserver

import (
	"time"

	"github.com/shopspring/decimal"

	"pos-terminal/internal/checkout"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
)

// money renders amounts the way the terminal displays them.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type productView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Status      string `json:"status"`
	Image       string `json:"image,omitempty"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Category:    p.Category,
		Price:       money(p.Price),
		Stock:       p.Stock,
		Status:      string(p.Status),
		Image:       p.Image,
	}
}

func toProductViews(ps []domain.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductView(p))
	}
	return out
}

type lineItemView struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Stock     int    `json:"stock"`
	Amount    string `json:"amount"`
}

func toLineItemViews(items []domain.LineItem) []lineItemView {
	out := make([]lineItemView, 0, len(items))
	for _, it := range items {
		out = append(out, lineItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: money(it.UnitPrice),
			Quantity:  it.Quantity,
			Stock:     it.Stock,
			Amount:    money(it.Amount()),
		})
	}
	return out
}

type paymentView struct {
	Method         string `json:"method"`
	Label          string `json:"label"`
	CryptoCurrency string `json:"cryptoCurrency,omitempty"`
	WalletAddress  string `json:"walletAddress,omitempty"`
	CardLast4      string `json:"cardLast4,omitempty"`
	CashReceived   string `json:"cashReceived,omitempty"`
	Change         string `json:"change,omitempty"`
}

type receiptView struct {
	InvoiceNumber string         `json:"invoiceNumber"`
	SaleID        int64          `json:"saleId,omitempty"`
	IssuedAt      time.Time      `json:"issuedAt"`
	Items         []lineItemView `json:"items"`
	Subtotal      string         `json:"subtotal"`
	Tax           string         `json:"tax"`
	Total         string         `json:"total"`
	PaymentMethod string         `json:"paymentMethod"`
	Change        string         `json:"change"`
}

type sessionView struct {
	ID        string         `json:"id"`
	State     string         `json:"state"`
	Items     []lineItemView `json:"items"`
	Subtotal  string         `json:"subtotal"`
	Tax       string         `json:"tax"`
	Total     string         `json:"total"`
	AmountDue string         `json:"amountDue"`
	Payment   *paymentView   `json:"payment,omitempty"`
	Error     string         `json:"error,omitempty"`
	Receipt   *receiptView   `json:"receipt,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func toSessionView(s checkout.Session, calc pricing.Calculator) sessionView {
	totals := s.Totals(calc)
	v := sessionView{
		ID:        s.ID,
		State:     s.State.String(),
		Items:     toLineItemViews(s.Cart.Items()),
		Subtotal:  money(totals.Subtotal),
		Tax:       money(totals.Tax),
		Total:     money(totals.Total),
		AmountDue: money(s.AmountDue()),
		Error:     s.Error,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if p := s.Payment; p != nil {
		pv := &paymentView{
			Method:         string(p.Method),
			Label:          p.Method.Label(),
			CryptoCurrency: p.CryptoCurrency,
			WalletAddress:  p.WalletAddress,
			CardLast4:      last4(p.Card.Number),
		}
		if p.Method == checkout.MethodCash {
			pv.CashReceived = money(p.CashReceived)
			pv.Change = money(s.Change())
		}
		v.Payment = pv
	}
	if r := s.Receipt; r != nil {
		v.Receipt = &receiptView{
			InvoiceNumber: r.InvoiceNumber,
			SaleID:        r.SaleID,
			IssuedAt:      r.IssuedAt,
			Items:         toLineItemViews(r.Items),
			Subtotal:      money(r.Subtotal),
			Tax:           money(r.Tax),
			Total:         money(r.Total),
			PaymentMethod: r.PaymentMethod,
			Change:        money(r.Change),
		}
	}
	return v
}

func last4(number string) string {
	digits := make([]rune, 0, len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}
