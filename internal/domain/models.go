// internal/domain/models.go
package domain

import "time"

// Product is a catalog item governed by the reorder-point model. Name is
// unique; AlertThreshold is always derived from DailySales, LeadTime and
// SafetyStock.
type Product struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	CostPrice      float64   `json:"cost_price" db:"cost_price"`
	SellingPrice   float64   `json:"selling_price" db:"selling_price"`
	StockQuantity  int       `json:"stock_quantity" db:"stock_quantity"`
	DailySales     float64   `json:"daily_sales" db:"daily_sales"`
	LeadTime       int       `json:"lead_time" db:"lead_time"`
	SafetyStock    int       `json:"safety_stock" db:"safety_stock"`
	AlertThreshold int       `json:"alert_threshold" db:"alert_threshold"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ProductInput is the editable part of a Product.
type ProductInput struct {
	Name          string  `json:"name"`
	CostPrice     float64 `json:"cost_price"`
	SellingPrice  float64 `json:"selling_price"`
	StockQuantity int     `json:"stock_quantity"`
	DailySales    float64 `json:"daily_sales"`
	LeadTime      int     `json:"lead_time"`
	SafetyStock   int     `json:"safety_stock"`
}

// WeeklyRecord holds the financial totals of one ISO week, keyed by its Monday.
type WeeklyRecord struct {
	ID        int64     `json:"id" db:"id"`
	WeekStart time.Time `json:"week_start" db:"week_start"`
	Revenue   float64   `json:"revenue" db:"revenue"`
	AdSpend   float64   `json:"ad_spend" db:"ad_spend"`
	Profit    float64   `json:"profit" db:"profit"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CompetitorObservation is one competitor price check for a product.
type CompetitorObservation struct {
	ID             int64     `json:"id" db:"id"`
	ProductID      int64     `json:"product_id" db:"product_id"`
	CompetitorName string    `json:"competitor_name" db:"competitor_name"`
	URL            string    `json:"url" db:"url"`
	Price          float64   `json:"price" db:"price"`
	CheckedAt      time.Time `json:"checked_at" db:"checked_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// UploadedFile is a report file handed over for extraction.
type UploadedFile struct {
	Filename string
	Data     []byte
}
