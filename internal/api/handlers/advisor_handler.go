package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhabuon/ToolTinhLai/internal/service"
)

type AdvisorHandler struct {
	service *service.AdvisorService
}

func NewAdvisorHandler(service *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{service: service}
}

type chatRequest struct {
	Question string `json:"question"`
}

func (h *AdvisorHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid chat payload", err)
		return
	}

	answer, err := h.service.Ask(c.Request.Context(), req.Question)
	if err != nil {
		respondError(c, "advisor request failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
