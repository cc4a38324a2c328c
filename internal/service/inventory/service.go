// Package inventory is the admin side of the product list: create, edit and
// remove products on the backend.
package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-terminal/internal/domain"
	productrepo "pos-terminal/internal/repository/product"
)

type refresher interface {
	Refresh(ctx context.Context) error
}

type Service struct {
	repo    productrepo.Repository
	catalog refresher
	logger  *zap.Logger
}

func New(repo productrepo.Repository, catalog refresher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, catalog: catalog, logger: logger}
}

// List returns every product, inactive ones included.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx)
	return nil
}

// refresh reloads the sellable catalog. A failure is logged; the mutation
// itself already succeeded.
func (s *Service) refresh(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Warn("catalog refresh after inventory change failed", zap.Error(err))
	}
}

func normalize(in domain.ProductInput) (domain.ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Description = strings.TrimSpace(in.Description)
	if in.Status == "" {
		in.Status = domain.ProductActive
	}

	switch {
	case in.Name == "":
		return in, domain.Invalid("name required")
	case in.Category == "":
		return in, domain.Invalid("category required")
	case in.Price.LessThan(decimal.Zero):
		return in, domain.Invalid("price must not be negative")
	case in.Stock < 0:
		return in, domain.Invalid("stock must not be negative")
	case !in.Status.Valid():
		return in, domain.Invalid("status must be active or inactive")
	}
	return in, nil
}
