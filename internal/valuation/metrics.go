package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/finbook/marketdata/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Aggregate computes portfolio-level totals from a holding set. Day change
// sums only holdings for which it is defined. Percent figures are zero when
// their denominator is zero, never a division error.
func Aggregate(holdings []models.Holding) models.PortfolioMetrics {
	var m models.PortfolioMetrics

	for _, h := range holdings {
		m.TotalValue = m.TotalValue.Add(h.CurrentValue)
		m.TotalInvested = m.TotalInvested.Add(h.Invested())
		if h.DayChange != nil {
			m.DayChange = m.DayChange.Add(*h.DayChange)
		}
	}

	m.TotalReturn = m.TotalValue.Sub(m.TotalInvested)
	if !m.TotalInvested.IsZero() {
		m.TotalReturnPercent = m.TotalReturn.Div(m.TotalInvested).Mul(hundred)
	}

	if prev := m.TotalValue.Sub(m.DayChange); !prev.IsZero() {
		m.DayChangePercent = m.DayChange.Div(prev).Mul(hundred)
	}

	return m
}
