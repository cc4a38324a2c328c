package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pos-terminal/internal/domain"
)

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
}

func (r productRequest) toInput() domain.ProductInput {
	return domain.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		SKU:         r.SKU,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		Status:      domain.ProductStatus(r.Status),
	}
}

// listProducts serves the sellable catalog from the local cache.
func (h *handlers) listProducts(c *gin.Context) {
	products := h.deps.Catalog.List(c.Query("search"))
	c.JSON(http.StatusOK, gin.H{
		"products":   toProductViews(products),
		"categories": h.deps.Catalog.Categories(),
	})
}

func (h *handlers) refreshProducts(c *gin.Context) {
	if err := h.deps.Catalog.Refresh(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	h.listProducts(c)
}

func (h *handlers) listInventory(c *gin.Context) {
	products, err := h.deps.Inventory.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": toProductViews(products)})
}

func (h *handlers) getInventory(c *gin.Context) {
	id, ok := inventoryID(c)
	if !ok {
		return
	}
	p, err := h.deps.Inventory.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": toProductView(*p)})
}

func (h *handlers) createInventory(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product body"})
		return
	}
	p, err := h.deps.Inventory.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": toProductView(*p)})
}

func (h *handlers) updateInventory(c *gin.Context) {
	id, ok := inventoryID(c)
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product body"})
		return
	}
	p, err := h.deps.Inventory.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": toProductView(*p)})
}

func (h *handlers) deleteInventory(c *gin.Context) {
	id, ok := inventoryID(c)
	if !ok {
		return
	}
	if err := h.deps.Inventory.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func inventoryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}
