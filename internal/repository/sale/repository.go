package sale

import (
	"context"

	"pos-terminal/internal/domain"
)

// Repository records and reads sales on the backend.
type Repository interface {
	Create(ctx context.Context, req domain.SaleRequest) (*domain.Sale, error)
	List(ctx context.Context) ([]domain.Sale, error)
	GetByID(ctx context.Context, id int64) (*domain.Sale, error)
}
