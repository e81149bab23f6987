package domain

import (
	"time"

	"github.com/nhabuon/ToolTinhLai/internal/inventory"
	"github.com/nhabuon/ToolTinhLai/internal/report"
)

// InventoryAlert is a product at or below its alert threshold.
type InventoryAlert struct {
	ProductID      int64              `json:"product_id"`
	Name           string             `json:"name"`
	StockQuantity  int                `json:"stock_quantity"`
	AlertThreshold int                `json:"alert_threshold"`
	Severity       inventory.Severity `json:"severity"`
	Label          string             `json:"label"`
	Advice         string             `json:"advice"`
	// RunwayDays is inventory.UnlimitedRunway when the product has no demand.
	RunwayDays int `json:"runway_days"`
}

// AlertBoard is the inventory alert listing, most severe first.
type AlertBoard struct {
	OutOfStock  int              `json:"out_of_stock"`
	LowStock    int              `json:"low_stock"`
	Alerts      []InventoryAlert `json:"alerts"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// WeeklySummary is a WeeklyRecord plus its ad cost-to-revenue ratio.
type WeeklySummary struct {
	WeeklyRecord
	CIR float64 `json:"cir"`
}

// ExtractionResponse carries both report extractions back for human review.
type ExtractionResponse struct {
	WeekStart time.Time      `json:"week_start"`
	Revenue   *report.Result `json:"revenue,omitempty"`
	Ads       *report.Result `json:"ads,omitempty"`
	Archived  []string       `json:"archived,omitempty"`
}

// CompetitorView is an observation with its gap to our selling price.
type CompetitorView struct {
	CompetitorObservation
	PriceGap float64 `json:"price_gap"`
}

// ImportSummary reports one week imported from a batch of report files.
type ImportSummary struct {
	WeekStart   time.Time `json:"week_start"`
	RevenueFile string    `json:"revenue_file,omitempty"`
	AdsFile     string    `json:"ads_file,omitempty"`
	Revenue     float64   `json:"revenue"`
	AdSpend     float64   `json:"ad_spend"`
	Log         []string  `json:"log"`
}
