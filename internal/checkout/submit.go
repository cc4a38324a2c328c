package checkout

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
)

// FailureMessage is shown on the confirmation screen when a sale is rejected.
const FailureMessage = "Error processing sale. Please try again."

// SaleCreator records a sale with the backend.
type SaleCreator interface {
	Create(ctx context.Context, req domain.SaleRequest) (*domain.Sale, error)
}

// StockAdjuster lowers locally cached stock after a sale.
type StockAdjuster interface {
	ApplySale(items []domain.SaleItem)
}

// Submitter sends confirmed sessions to the backend.
type Submitter struct {
	sales  SaleCreator
	stock  StockAdjuster
	calc   pricing.Calculator
	logger *zap.Logger
	now    func() time.Time
}

func NewSubmitter(sales SaleCreator, stock StockAdjuster, calc pricing.Calculator, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{
		sales:  sales,
		stock:  stock,
		calc:   calc,
		logger: logger,
		now:    time.Now,
	}
}

// Submit sends one sale request for s. A rejected or failed request leaves
// the session in PaymentConfirm with FailureMessage set and the error
// returned alongside it; the caller may submit again. Only a state error
// returns the session unchanged.
func (sub *Submitter) Submit(ctx context.Context, s Session) (Session, error) {
	if s.State != PaymentConfirm {
		return s, invalid("submit sale", s.State)
	}
	req := BuildSaleRequest(s)
	sale, err := sub.sales.Create(ctx, req)
	if err != nil {
		sub.logger.Warn("sale submission failed",
			zap.String("session_id", s.ID),
			zap.String("total", req.Total.StringFixed(2)),
			zap.Error(err),
		)
		failed, ferr := s.Fail(FailureMessage, sub.now())
		if ferr != nil {
			return s, ferr
		}
		return failed, err
	}

	if sale == nil {
		sale = &domain.Sale{}
	}
	if sub.stock != nil {
		sub.stock.ApplySale(req.Items)
	}
	now := sub.now()
	done, err := s.Complete(NewReceipt(s, sub.calc, sale, now), now)
	if err != nil {
		return s, err
	}
	sub.logger.Info("sale completed",
		zap.String("session_id", s.ID),
		zap.Int64("sale_id", sale.ID),
		zap.String("invoice", done.Receipt.InvoiceNumber),
	)
	return done, nil
}

// BuildSaleRequest maps the cart and captured total of s to the backend
// payload. Each item carries the unit price captured when it was added.
func BuildSaleRequest(s Session) domain.SaleRequest {
	lines := s.Cart.Items()
	items := make([]domain.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.SaleItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
		})
	}
	req := domain.SaleRequest{Items: items, Total: s.Total}
	if s.Payment != nil {
		req.PaymentMethod = s.Payment.Method.Label()
	}
	return req
}
