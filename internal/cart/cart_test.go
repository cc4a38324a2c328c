package cart

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-terminal/internal/domain"
)

func product(id int64, stock int) domain.Product {
	return domain.Product{
		ID:     id,
		Name:   "Product",
		Price:  decimal.RequireFromString("10.00"),
		Stock:  stock,
		Status: domain.ProductActive,
	}
}

func TestAddOrIncrement_NewLine(t *testing.T) {
	c, err := Cart{}.AddOrIncrement(product(1, 5))
	require.NoError(t, err)

	item, ok := c.Find(1)
	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, 5, item.Stock)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("10")))
}

func TestAddOrIncrement_SameProductTwice(t *testing.T) {
	c, err := Cart{}.AddOrIncrement(product(1, 5))
	require.NoError(t, err)
	c, err = c.AddOrIncrement(product(1, 5))
	require.NoError(t, err)

	require.Equal(t, 1, c.Len())
	item, _ := c.Find(1)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddOrIncrement_CapsAtStock(t *testing.T) {
	c := Cart{}
	var err error
	for i := 0; i < 5; i++ {
		c, err = c.AddOrIncrement(product(1, 2))
		require.NoError(t, err)
	}
	item, _ := c.Find(1)
	assert.Equal(t, 2, item.Quantity)
}

func TestAddOrIncrement_OutOfStock(t *testing.T) {
	c, err := Cart{}.AddOrIncrement(product(1, 0))
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.True(t, c.IsEmpty())
}

func TestAddOrIncrement_DoesNotMutateReceiver(t *testing.T) {
	base, err := Cart{}.AddOrIncrement(product(1, 5))
	require.NoError(t, err)
	next, err := base.AddOrIncrement(product(1, 5))
	require.NoError(t, err)

	before, _ := base.Find(1)
	after, _ := next.Find(1)
	assert.Equal(t, 1, before.Quantity)
	assert.Equal(t, 2, after.Quantity)
}

func TestChangeQuantity_ClampsToOne(t *testing.T) {
	c, err := Cart{}.AddOrIncrement(product(1, 5))
	require.NoError(t, err)

	c = c.ChangeQuantity(1, -1)
	item, ok := c.Find(1)
	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
}

func TestChangeQuantity_ClampsToStock(t *testing.T) {
	c, err := Cart{}.AddOrIncrement(product(1, 3))
	require.NoError(t, err)

	c = c.ChangeQuantity(1, 10)
	item, _ := c.Find(1)
	assert.Equal(t, 3, item.Quantity)
}

func TestChangeQuantity_ExtremeDeltas(t *testing.T) {
	c, err := Cart{}.AddOrIncrement(product(1, 4))
	require.NoError(t, err)
	c, err = c.AddOrIncrement(product(1, 4))
	require.NoError(t, err)

	up := c.ChangeQuantity(1, math.MaxInt)
	item, _ := up.Find(1)
	assert.Equal(t, 4, item.Quantity)

	down := c.ChangeQuantity(1, math.MinInt)
	item, _ = down.Find(1)
	assert.Equal(t, 1, item.Quantity)
}

func TestChangeQuantity_AbsentIsNoop(t *testing.T) {
	c, err := Cart{}.AddOrIncrement(product(1, 3))
	require.NoError(t, err)

	got := c.ChangeQuantity(99, 1)
	assert.Equal(t, c.Items(), got.Items())
}

func TestRemoveAndClear(t *testing.T) {
	c := Cart{}
	var err error
	for _, id := range []int64{1, 2, 3} {
		c, err = c.AddOrIncrement(product(id, 3))
		require.NoError(t, err)
	}

	c = c.Remove(2)
	require.Equal(t, 2, c.Len())
	items := c.Items()
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, int64(3), items[1].ProductID)

	assert.Equal(t, 2, c.Remove(42).Len())
	assert.True(t, c.Clear().IsEmpty())
}

func TestQuantitiesStayWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	stocks := map[int64]int{1: 1, 2: 4, 3: 9}
	c := Cart{}

	for step := 0; step < 2000; step++ {
		id := int64(rng.Intn(3) + 1)
		if rng.Intn(2) == 0 {
			next, err := c.AddOrIncrement(product(id, stocks[id]))
			require.NoError(t, err)
			c = next
		} else {
			c = c.ChangeQuantity(id, rng.Intn(11)-5)
		}
		for _, item := range c.Items() {
			require.GreaterOrEqual(t, item.Quantity, 1, "step %d", step)
			require.LessOrEqual(t, item.Quantity, item.Stock, "step %d", step)
		}
	}
}
