// Package cart holds the line items of the sale being built on a terminal.
package cart

import (
	"errors"

	"pos-terminal/internal/domain"
)

// ErrOutOfStock is returned when a product with no stock is added.
var ErrOutOfStock = errors.New("product out of stock")

// Cart is an ordered set of line items keyed by product id. It is a value:
// every operation returns a new Cart and leaves the receiver untouched.
type Cart struct {
	items []domain.LineItem
}

// Items returns a copy of the line items in insertion order.
func (c Cart) Items() []domain.LineItem {
	out := make([]domain.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c Cart) Len() int {
	return len(c.items)
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Find returns the line item for productID.
func (c Cart) Find(productID int64) (domain.LineItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i], true
	}
	return domain.LineItem{}, false
}

// AddOrIncrement inserts p with quantity 1, or bumps an existing line by one.
// The quantity is silently capped at the stock captured when the line was
// created.
func (c Cart) AddOrIncrement(p domain.Product) (Cart, error) {
	if i := c.indexOf(p.ID); i >= 0 {
		items := c.Items()
		items[i].Quantity = clamp(items[i].Quantity+1, 1, items[i].Stock)
		return Cart{items: items}, nil
	}
	if p.Stock < 1 {
		return c, ErrOutOfStock
	}
	items := append(c.Items(), domain.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Stock:     p.Stock,
		Quantity:  1,
	})
	return Cart{items: items}, nil
}

// ChangeQuantity adjusts the quantity of productID by delta, clamped to
// [1, captured stock]. Absent products are ignored; decrementing never
// removes a line.
func (c Cart) ChangeQuantity(productID int64, delta int) Cart {
	i := c.indexOf(productID)
	if i < 0 {
		return c
	}
	items := c.Items()
	// bound delta first so the sum cannot overflow
	delta = clamp(delta, -items[i].Stock, items[i].Stock)
	items[i].Quantity = clamp(items[i].Quantity+delta, 1, items[i].Stock)
	return Cart{items: items}
}

// Remove deletes the line for productID, if any.
func (c Cart) Remove(productID int64) Cart {
	i := c.indexOf(productID)
	if i < 0 {
		return c
	}
	items := make([]domain.LineItem, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	return Cart{items: items}
}

func (c Cart) Clear() Cart {
	return Cart{}
}

func (c Cart) indexOf(productID int64) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
