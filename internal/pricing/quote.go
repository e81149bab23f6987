// Package pricing computes per-unit profit for a product sold on the
// marketplace after the platform fee and packaging.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidQuote = errors.New("invalid quote")

// Defaults used when a request leaves fee or packaging unset.
type Defaults struct {
	PlatformFeePct float64
	PackagingCost  float64
}

type Input struct {
	CostPrice      float64  `json:"cost_price"`
	SellingPrice   float64  `json:"selling_price"`
	PackagingCost  *float64 `json:"packaging_cost,omitempty"`
	PlatformFeePct *float64 `json:"platform_fee_pct,omitempty"`
}

type Breakdown struct {
	SellingPrice   float64 `json:"selling_price"`
	CostPrice      float64 `json:"cost_price"`
	PackagingCost  float64 `json:"packaging_cost"`
	PlatformFeePct float64 `json:"platform_fee_pct"`
	PlatformFee    float64 `json:"platform_fee"`
	NetRevenue     float64 `json:"net_revenue"`
	TotalCost      float64 `json:"total_cost"`
	NetProfit      float64 `json:"net_profit"`
	MarginPct      float64 `json:"margin_pct"`
	Profitable     bool    `json:"profitable"`
}

// Resolve fills unset fee and packaging from d and quotes the result.
func (d Defaults) Resolve(in Input) (Breakdown, error) {
	packaging := d.PackagingCost
	if in.PackagingCost != nil {
		packaging = *in.PackagingCost
	}
	fee := d.PlatformFeePct
	if in.PlatformFeePct != nil {
		fee = *in.PlatformFeePct
	}
	return Quote(in.CostPrice, in.SellingPrice, packaging, fee)
}

// Quote returns the profit breakdown of selling one unit at price. Money
// fields are rounded to whole đồng, the margin to two decimals.
func Quote(cost, price, packaging, feePct float64) (Breakdown, error) {
	switch {
	case cost < 0:
		return Breakdown{}, fmt.Errorf("%w: cost_price must be >= 0", ErrInvalidQuote)
	case price < 0:
		return Breakdown{}, fmt.Errorf("%w: selling_price must be >= 0", ErrInvalidQuote)
	case packaging < 0:
		return Breakdown{}, fmt.Errorf("%w: packaging_cost must be >= 0", ErrInvalidQuote)
	case feePct < 0 || feePct > 100:
		return Breakdown{}, fmt.Errorf("%w: platform_fee_pct must be within [0, 100]", ErrInvalidQuote)
	}

	dPrice := decimal.NewFromFloat(price)
	dCost := decimal.NewFromFloat(cost)
	dPack := decimal.NewFromFloat(packaging)
	hundred := decimal.NewFromInt(100)

	fee := dPrice.Mul(decimal.NewFromFloat(feePct)).Div(hundred)
	netRevenue := dPrice.Sub(fee)
	totalCost := dCost.Add(dPack)
	profit := netRevenue.Sub(totalCost)

	margin := decimal.Zero
	if !dPrice.IsZero() {
		margin = profit.Div(dPrice).Mul(hundred)
	}

	return Breakdown{
		SellingPrice:   price,
		CostPrice:      cost,
		PackagingCost:  packaging,
		PlatformFeePct: feePct,
		PlatformFee:    whole(fee),
		NetRevenue:     whole(netRevenue),
		TotalCost:      whole(totalCost),
		NetProfit:      whole(profit),
		MarginPct:      margin.Round(2).InexactFloat64(),
		Profitable:     profit.IsPositive(),
	}, nil
}

func whole(d decimal.Decimal) float64 {
	return d.Round(0).InexactFloat64()
}
