package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"

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

type listResponse struct {
	Success  bool             `json:"success"`
	Products []domain.Product `json:"products"`
}

type itemResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Product domain.Product `json:"product"`
}

// payload is the product body accepted by the backend; prices travel as
// JSON numbers.
type payload struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	SKU         string  `json:"sku,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Status      string  `json:"status"`
}

func toPayload(in domain.ProductInput) payload {
	return payload{
		Name:        in.Name,
		Description: in.Description,
		SKU:         in.SKU,
		Category:    in.Category,
		Price:       in.Price.InexactFloat64(),
		Stock:       in.Stock,
		Status:      string(in.Status),
	}
}

func (r *httpRepo) List(ctx context.Context) ([]domain.Product, error) {
	var resp listResponse
	if err := r.client.Do(ctx, http.MethodGet, "/products", nil, &resp); err != nil {
		r.logger.Warn("product repo: list", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(resp.Products)))
	return resp.Products, nil
}

func (r *httpRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var resp itemResponse
	if err := r.client.Do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &resp); err != nil {
		r.logFailure("get", id, err)
		return nil, err
	}
	return &resp.Product, nil
}

func (r *httpRepo) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var resp itemResponse
	if err := r.client.Do(ctx, http.MethodPost, "/products", toPayload(in), &resp); err != nil {
		r.logger.Warn("product repo: create", zap.String("name", in.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Info("product repo: created", zap.Int64("id", resp.Product.ID), zap.String("name", resp.Product.Name))
	return &resp.Product, nil
}

func (r *httpRepo) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	var resp itemResponse
	if err := r.client.Do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), toPayload(in), &resp); err != nil {
		r.logFailure("update", id, err)
		return nil, err
	}
	r.logger.Info("product repo: updated", zap.Int64("id", id))
	return &resp.Product, nil
}

func (r *httpRepo) Delete(ctx context.Context, id int64) error {
	if err := r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil); err != nil {
		r.logFailure("delete", id, err)
		return err
	}
	r.logger.Info("product repo: deleted", zap.Int64("id", id))
	return nil
}

func (r *httpRepo) logFailure(op string, id int64, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		r.logger.Debug("product repo: not found", zap.String("op", op), zap.Int64("id", id))
		return
	}
	r.logger.Warn("product repo: "+op, zap.Int64("id", id), zap.Error(err))
}
