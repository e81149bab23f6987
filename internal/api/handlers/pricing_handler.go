package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhabuon/ToolTinhLai/internal/pricing"
)

type PricingHandler struct {
	defaults pricing.Defaults
}

func NewPricingHandler(defaults pricing.Defaults) *PricingHandler {
	return &PricingHandler{defaults: defaults}
}

func (h *PricingHandler) Quote(c *gin.Context) {
	var in pricing.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid quote payload", err)
		return
	}

	breakdown, err := h.defaults.Resolve(in)
	if err != nil {
		respondError(c, "failed to compute quote", err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
