package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhabuon/ToolTinhLai/internal/service"
)

type CompetitorHandler struct {
	service *service.CompetitorService
}

func NewCompetitorHandler(service *service.CompetitorService) *CompetitorHandler {
	return &CompetitorHandler{service: service}
}

type observationRequest struct {
	CompetitorName string    `json:"competitor_name"`
	URL            string    `json:"url"`
	Price          float64   `json:"price"`
	CheckedAt      time.Time `json:"checked_at"`
}

func (h *CompetitorHandler) List(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	views, err := h.service.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch competitor prices", err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *CompetitorHandler) Add(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req observationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid competitor payload", err)
		return
	}

	view, err := h.service.Add(c.Request.Context(), id, req.CompetitorName, req.URL, req.Price, req.CheckedAt)
	if err != nil {
		respondError(c, "failed to record competitor price", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}
