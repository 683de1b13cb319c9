package models

import (
	"github.com/shopspring/decimal"

	"github.com/finbook/marketdata/internal/dates"
)

// Record is the closed set of cacheable instrument records. Quote and
// FundNAV are the only implementations; valuation switches over them
// exhaustively.
type Record interface {
	// Key returns the unique cache key (symbol or scheme code).
	Key() string
	// Label returns the human-searchable name (symbol or scheme name).
	Label() string

	sealedRecord()
}

// Quote represents the daily price record for an equity instrument.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PrevClose     decimal.Decimal `json:"prev_close"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	AsOf          dates.Date      `json:"as_of"`
	Currency      string          `json:"currency"`
}

func (q Quote) Key() string   { return q.Symbol }
func (q Quote) Label() string { return q.Symbol }

func (Quote) sealedRecord() {}

// DeriveFromChangePercent fills PrevClose and Change from Price and
// ChangePercent using price = prevClose * (1 + changePercent/100). Feeds
// carry only the current price and the day's percent move, so the close
// is back-derived.
func (q *Quote) DeriveFromChangePercent() {
	hundred := decimal.NewFromInt(100)
	factor := decimal.NewFromInt(1).Add(q.ChangePercent.Div(hundred))
	q.PrevClose = q.Price.Div(factor)
	q.Change = q.Price.Sub(q.PrevClose)
}
