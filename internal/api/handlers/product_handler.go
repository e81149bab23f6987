package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/service"
)

type ProductHandler struct {
	service *service.ProductService
}

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type stockRequest struct {
	Delta int `json:"delta"`
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid product payload", err)
		return
	}

	product, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, "failed to create product", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid product payload", err)
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, "failed to update product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// AdjustStock applies a signed stock delta, e.g. {"delta": -3} for a sale.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid stock payload", err)
		return
	}

	product, err := h.service.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		respondError(c, "failed to adjust stock", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Alerts(c *gin.Context) {
	board, err := h.service.Alerts(c.Request.Context())
	if err != nil {
		respondError(c, "failed to evaluate inventory alerts", err)
		return
	}
	c.JSON(http.StatusOK, board)
}
