package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-terminal/internal/domain"
)

// ProductStore is the part of the product repository seeding needs.
type ProductStore interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
}

// Products is the demo catalog.
var Products = []domain.ProductInput{
	{Name: "Espresso", Category: "Coffee", SKU: "POS-ESP", Price: decimal.RequireFromString("2.50"), Stock: 100, Status: domain.ProductActive, Description: "Single shot"},
	{Name: "Cappuccino", Category: "Coffee", SKU: "POS-CAP", Price: decimal.RequireFromString("3.80"), Stock: 80, Status: domain.ProductActive},
	{Name: "Green Tea", Category: "Tea", SKU: "POS-GTEA", Price: decimal.RequireFromString("2.20"), Stock: 60, Status: domain.ProductActive},
	{Name: "Butter Croissant", Category: "Bakery", SKU: "POS-CRO", Price: decimal.RequireFromString("1.95"), Stock: 24, Status: domain.ProductActive},
	{Name: "Blueberry Muffin", Category: "Bakery", SKU: "POS-MUF", Price: decimal.RequireFromString("2.75"), Stock: 0, Status: domain.ProductActive, Description: "Sold out demo item"},
	{Name: "Ceramic Mug", Category: "Merch", SKU: "POS-MUG", Price: decimal.RequireFromString("12.99"), Stock: 10, Status: domain.ProductInactive},
}

// Apply creates the demo products that do not exist yet, matching by name,
// and returns how many it created.
func Apply(ctx context.Context, store ProductStore, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	names := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		names[strings.ToLower(p.Name)] = struct{}{}
	}

	created := 0
	for _, in := range Products {
		if _, ok := names[strings.ToLower(in.Name)]; ok {
			logger.Debug("seed: product exists", zap.String("name", in.Name))
			continue
		}
		if _, err := store.Create(ctx, in); err != nil {
			return created, fmt.Errorf("create product %s: %w", in.Name, err)
		}
		created++
	}
	logger.Info("seed finished", zap.Int("created", created), zap.Int("skipped", len(Products)-created))
	return created, nil
}
