// Package inventory implements the reorder-point model used to decide when a
// product needs restocking.
package inventory

import (
	"errors"
	"fmt"
	"math"
)

// UnlimitedRunway is returned by DaysOfRunway when there is no demand, so
// stock never depletes.
const UnlimitedRunway = math.MaxInt32

var (
	ErrInvalidParams     = errors.New("invalid reorder parameters")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Params are the demand and logistics inputs of the reorder point.
type Params struct {
	DailySales  float64 `json:"daily_sales"`
	LeadTime    int     `json:"lead_time"`
	SafetyStock int     `json:"safety_stock"`
}

// Validate reports ErrInvalidParams when daily sales or safety stock are
// negative or the lead time is shorter than a day.
func (p Params) Validate() error {
	return ValidateParams(p.DailySales, p.LeadTime, p.SafetyStock)
}

// ReorderPoint returns p's alert threshold.
func (p Params) ReorderPoint() int {
	return ReorderPoint(p.DailySales, p.LeadTime, p.SafetyStock)
}

func ValidateParams(dailySales float64, leadTime, safetyStock int) error {
	switch {
	case math.IsNaN(dailySales) || math.IsInf(dailySales, 0) || dailySales < 0:
		return fmt.Errorf("%w: daily_sales must be >= 0, got %v", ErrInvalidParams, dailySales)
	case leadTime < 1:
		return fmt.Errorf("%w: lead_time must be >= 1, got %d", ErrInvalidParams, leadTime)
	case safetyStock < 0:
		return fmt.Errorf("%w: safety_stock must be >= 0, got %d", ErrInvalidParams, safetyStock)
	}
	return nil
}

// ReorderPoint computes floor(dailySales*leadTime + safetyStock). It does not
// validate its input; callers run ValidateParams first.
func ReorderPoint(dailySales float64, leadTime, safetyStock int) int {
	return int(math.Floor(dailySales*float64(leadTime) + float64(safetyStock)))
}

// DaysOfRunway estimates how many whole days stock lasts at the given demand
// rate. Zero demand yields UnlimitedRunway. Negative stock counts as empty.
func DaysOfRunway(stock int, dailySales float64) int {
	if dailySales <= 0 {
		return UnlimitedRunway
	}
	if stock <= 0 {
		return 0
	}
	days := math.Floor(float64(stock) / dailySales)
	if days >= UnlimitedRunway {
		return UnlimitedRunway
	}
	return int(days)
}

// ApplyDelta returns the stock level after adding delta. Deltas that would
// leave stock below zero are rejected with ErrInsufficientStock.
func ApplyDelta(stock, delta int) (int, error) {
	if delta == 0 {
		return stock, fmt.Errorf("%w: stock delta must not be zero", ErrInvalidParams)
	}
	next := stock + delta
	if next < 0 {
		return stock, fmt.Errorf("%w: have %d, requested %d", ErrInsufficientStock, stock, -delta)
	}
	return next, nil
}
