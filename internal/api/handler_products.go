package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warehouse-ops-backend/internal/inventory"
)

// ListProducts handles GET /api/products, optionally filtered by ?status=.
func (h *Handler) ListProducts(c *gin.Context) {
	products := h.app.Products()
	if s := c.Query("status"); s != "" {
		products = inventory.FilterByStatus(products, inventory.ProductStatus(s))
	}
	if products == nil {
		products = []inventory.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /api/products. Any status sent by the client is
// ignored.
func (h *Handler) CreateProduct(c *gin.Context) {
	var in inventory.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	p, err := h.app.AddProduct(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProduct handles PUT /api/products/:id.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var in inventory.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	p, err := h.app.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetReorderFlags handles GET /api/products/reorder-flags.
func (h *Handler) GetReorderFlags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"product_ids": h.app.ReorderFlags()})
}
