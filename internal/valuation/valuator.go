// Package valuation reprices holdings against cached snapshots and computes
// portfolio totals. Everything here is pure computation: no fetches, no
// cache writes.
package valuation

import (
	"strings"

	"github.com/finbook/marketdata/internal/models"
)

// Reprice returns updated copies of the holdings, priced against the given
// snapshots. Holdings with no matching record, and holdings whose class is
// neither equity nor fund, pass through unchanged. Either snapshot may be
// nil, in which case its class is left unpriced.
func Reprice(holdings []models.Holding, equities, funds *models.Snapshot) []models.Holding {
	out := make([]models.Holding, len(holdings))
	for i, h := range holdings {
		switch h.Class {
		case models.ClassEquity:
			out[i] = repriceEquity(h, equities)
		case models.ClassFund:
			out[i] = repriceFund(h, funds)
		case models.ClassOther:
			out[i] = h
		default:
			out[i] = h
		}
	}
	return out
}

func repriceEquity(h models.Holding, snap *models.Snapshot) models.Holding {
	if snap == nil || h.Key == "" {
		return h
	}
	rec, ok := snap.Get(strings.ToUpper(h.Key))
	if !ok {
		return h
	}
	quote, ok := rec.(models.Quote)
	if !ok {
		return h
	}

	change := quote.Change
	changePct := quote.ChangePercent
	h.MarketPrice = quote.Price
	h.DayChange = &change
	h.DayChangePercent = &changePct
	h.CurrentValue = h.Quantity.Mul(quote.Price)
	h.LastPricedAt = quote.AsOf
	return h
}

func repriceFund(h models.Holding, snap *models.Snapshot) models.Holding {
	if snap == nil || h.Key == "" {
		return h
	}
	rec, ok := snap.Get(h.Key)
	if !ok {
		return h
	}
	nav, ok := rec.(models.FundNAV)
	if !ok {
		return h
	}

	// Day change is undefined for funds: the NAV feed carries no previous
	// value.
	h.MarketPrice = nav.NAV
	h.DayChange = nil
	h.DayChangePercent = nil
	h.CurrentValue = h.Quantity.Mul(nav.NAV)
	h.LastPricedAt = nav.AsOf
	return h
}
