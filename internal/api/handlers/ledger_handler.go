package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhabuon/ToolTinhLai/internal/domain"
	"github.com/nhabuon/ToolTinhLai/internal/service"
)

const maxReportSize = 32 << 20

type LedgerHandler struct {
	service *service.LedgerService
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

type weekRequest struct {
	Revenue float64 `json:"revenue"`
	AdSpend float64 `json:"ad_spend"`
	Profit  float64 `json:"profit"`
}

func (h *LedgerHandler) ListWeeks(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	weeks, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "failed to fetch ledger", err)
		return
	}
	c.JSON(http.StatusOK, weeks)
}

// SaveWeek upserts /ledger/weeks/:week, where :week is any date of the week.
func (h *LedgerHandler) SaveWeek(c *gin.Context) {
	week, err := domain.ParseWeek(c.Param("week"))
	if err != nil {
		badRequest(c, "invalid week", err)
		return
	}

	var req weekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid week payload", err)
		return
	}

	summary, err := h.service.Save(c.Request.Context(), week, req.Revenue, req.AdSpend, req.Profit)
	if err != nil {
		respondError(c, "failed to save week", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Extract reads the multipart fields "revenue" and "ads" and returns both
// extractions for review. An optional "week" field picks the ledger week.
func (h *LedgerHandler) Extract(c *gin.Context) {
	revenue, err := formFile(c, "revenue")
	if err != nil {
		badRequest(c, "invalid revenue upload", err)
		return
	}
	ads, err := formFile(c, "ads")
	if err != nil {
		badRequest(c, "invalid ads upload", err)
		return
	}
	if revenue == nil && ads == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	var week time.Time
	if raw := strings.TrimSpace(c.PostForm("week")); raw != "" {
		week, err = domain.ParseWeek(raw)
		if err != nil {
			badRequest(c, "invalid week", err)
			return
		}
	}

	resp, err := h.service.ExtractReports(c.Request.Context(), week, revenue, ads)
	if err != nil {
		respondError(c, "failed to extract reports", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// formFile returns nil when the field is absent.
func formFile(c *gin.Context, field string) (*domain.UploadedFile, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if header.Size > maxReportSize {
		return nil, fmt.Errorf("%s is larger than %d MB", header.Filename, maxReportSize>>20)
	}
	return readUpload(header)
}

func readUpload(header *multipart.FileHeader) (*domain.UploadedFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxReportSize+1))
	if err != nil {
		return nil, err
	}
	return &domain.UploadedFile{Filename: header.Filename, Data: data}, nil
}
