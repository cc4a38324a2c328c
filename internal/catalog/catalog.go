// Package catalog caches the sellable products shown on the terminal.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"pos-terminal/internal/domain"
)

// Source lists every product known to the backend.
type Source interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Catalog holds the active products from the last refresh. Stock is
// decremented locally after each sale until the next refresh.
type Catalog struct {
	source Source
	logger *zap.Logger

	mu          sync.RWMutex
	products    []domain.Product
	refreshedAt time.Time
}

func New(source Source, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{source: source, logger: logger}
}

// Refresh replaces the cached list with the active products from source.
// On error the previous list is kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	all, err := c.source.List(ctx)
	if err != nil {
		c.logger.Warn("catalog refresh failed", zap.Error(err))
		return err
	}
	active := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if p.IsActive() {
			active = append(active, p)
		}
	}

	c.mu.Lock()
	c.products = active
	c.refreshedAt = time.Now()
	c.mu.Unlock()

	c.logger.Debug("catalog refreshed", zap.Int("total", len(all)), zap.Int("active", len(active)))
	return nil
}

// List returns the cached products whose name contains search, ignoring
// case. An empty search returns everything.
func (c *Catalog) List(search string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(search))

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories of the cached products, sorted.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// Get returns the cached product with id or domain.ErrNotFound.
func (c *Catalog) Get(id int64) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

// ApplySale lowers cached stock by the sold quantities, never below zero.
// Products not in the cache are skipped.
func (c *Catalog) ApplySale(items []domain.SaleItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range items {
		for i := range c.products {
			if c.products[i].ID != item.ProductID {
				continue
			}
			stock := c.products[i].Stock - item.Quantity
			if stock < 0 {
				stock = 0
			}
			c.products[i].Stock = stock
		}
	}
}

// RefreshedAt reports when the cache was last loaded; zero before the first
// successful refresh.
func (c *Catalog) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
