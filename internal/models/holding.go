package models

import (
	"github.com/shopspring/decimal"

	"github.com/finbook/marketdata/internal/dates"
)

// Holding is one position supplied by the owning application's asset
// records. The valuation engine only reads holdings and returns updated
// copies; it never persists them.
type Holding struct {
	Class    InstrumentClass `json:"class"`
	Key      string          `json:"key,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	AvgCost  decimal.Decimal `json:"avg_cost"`
	// InvestedValue, when set, takes precedence over AvgCost * Quantity
	// in portfolio totals.
	InvestedValue    *decimal.Decimal `json:"invested_value,omitempty"`
	CurrentValue     decimal.Decimal  `json:"current_value"`
	MarketPrice      decimal.Decimal  `json:"market_price"`
	DayChange        *decimal.Decimal `json:"day_change,omitempty"`
	DayChangePercent *decimal.Decimal `json:"day_change_percent,omitempty"`
	LastPricedAt     dates.Date       `json:"last_priced_at,omitzero"`
}

// Invested returns the amount paid for the holding.
func (h Holding) Invested() decimal.Decimal {
	if h.InvestedValue != nil {
		return *h.InvestedValue
	}
	return h.AvgCost.Mul(h.Quantity)
}

// PortfolioMetrics holds portfolio-level totals. Derived on demand from a
// holding set, never cached.
type PortfolioMetrics struct {
	TotalValue         decimal.Decimal `json:"total_value"`
	TotalInvested      decimal.Decimal `json:"total_invested"`
	TotalReturn        decimal.Decimal `json:"total_return"`
	TotalReturnPercent decimal.Decimal `json:"total_return_percent"`
	DayChange          decimal.Decimal `json:"day_change"`
	DayChangePercent   decimal.Decimal `json:"day_change_percent"`
}
