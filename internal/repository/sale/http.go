package sale

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/domain"
)

type httpRepo struct {
	client backend.Doer
	logger *zap.Logger
}

func NewHTTP(client backend.Doer, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpRepo{client: client, logger: logger}
}

type itemPayload struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type createPayload struct {
	Items         []itemPayload `json:"items"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"paymentMethod"`
}

// wireItem accepts both the request shape (productId) and the stored shape
// (id) the backend echoes back.
type wireItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type wireSale struct {
	ID            int64           `json:"id"`
	Total         decimal.Decimal `json:"total"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	Items         []wireItem      `json:"items"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (w wireSale) toDomain() domain.Sale {
	items := make([]domain.SaleItem, 0, len(w.Items))
	for _, it := range w.Items {
		id := it.ProductID
		if id == 0 {
			id = it.ID
		}
		items = append(items, domain.SaleItem{ProductID: id, Quantity: it.Quantity, Price: it.Price})
	}
	return domain.Sale{
		ID:            w.ID,
		Total:         w.Total,
		Subtotal:      w.Subtotal,
		Tax:           w.Tax,
		PaymentMethod: w.PaymentMethod,
		Status:        w.Status,
		Items:         items,
		CreatedAt:     w.CreatedAt,
	}
}

type itemResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Sale    wireSale `json:"sale"`
}

type listResponse struct {
	Success bool       `json:"success"`
	Sales   []wireSale `json:"sales"`
}

func (r *httpRepo) Create(ctx context.Context, req domain.SaleRequest) (*domain.Sale, error) {
	body := createPayload{
		Items:         make([]itemPayload, 0, len(req.Items)),
		Total:         req.Total.InexactFloat64(),
		PaymentMethod: req.PaymentMethod,
	}
	for _, it := range req.Items {
		body.Items = append(body.Items, itemPayload{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.InexactFloat64(),
		})
	}

	var resp itemResponse
	if err := r.client.Do(ctx, http.MethodPost, "/sales", body, &resp); err != nil {
		r.logger.Warn("sale repo: create",
			zap.Int("items", len(req.Items)),
			zap.String("total", req.Total.StringFixed(2)),
			zap.Error(err),
		)
		return nil, err
	}
	s := resp.Sale.toDomain()
	r.logger.Info("sale repo: created", zap.Int64("id", s.ID), zap.String("method", s.PaymentMethod))
	return &s, nil
}

func (r *httpRepo) List(ctx context.Context) ([]domain.Sale, error) {
	var resp listResponse
	if err := r.client.Do(ctx, http.MethodGet, "/sales", nil, &resp); err != nil {
		r.logger.Warn("sale repo: list", zap.Error(err))
		return nil, err
	}
	out := make([]domain.Sale, 0, len(resp.Sales))
	for _, s := range resp.Sales {
		out = append(out, s.toDomain())
	}
	r.logger.Debug("sale repo: list", zap.Int("count", len(out)))
	return out, nil
}

func (r *httpRepo) GetByID(ctx context.Context, id int64) (*domain.Sale, error) {
	var resp itemResponse
	if err := r.client.Do(ctx, http.MethodGet, fmt.Sprintf("/sales/%d", id), nil, &resp); err != nil {
		r.logger.Warn("sale repo: get", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	s := resp.Sale.toDomain()
	return &s, nil
}
