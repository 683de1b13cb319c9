package models

import (
	"github.com/shopspring/decimal"

	"github.com/finbook/marketdata/internal/dates"
)

// FundNAV represents the daily net asset value record for a fund scheme.
type FundNAV struct {
	SchemeCode string          `json:"scheme_code"`
	SchemeName string          `json:"scheme_name"`
	NAV        decimal.Decimal `json:"nav"`
	AsOf       dates.Date      `json:"as_of"`
}

func (f FundNAV) Key() string   { return f.SchemeCode }
func (f FundNAV) Label() string { return f.SchemeName }

func (FundNAV) sealedRecord() {}
