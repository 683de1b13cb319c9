// Package feed turns raw price/NAV feed text into snapshots and fetches it
// from the configured remote sources.
package feed

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finbook/marketdata/internal/dates"
	"github.com/finbook/marketdata/internal/models"
)

// fundFeed field positions within a semicolon-delimited row:
// code;isin_payout;isin_reinvest;name;nav;date
const (
	fundFieldCode   = 0
	fundFieldName   = 3
	fundFieldNAV    = 4
	fundFieldDate   = 5
	fundFieldsCount = 6
)

const equityCurrency = "INR"

var errNonPositive = errors.New("value must be positive")

// ParseEquityFeed parses rows of the form "SYMBOL,PRICE,CHANGEPCT" into a
// snapshot stamped with day. Rows whose symbol is empty, whose price is not
// a positive finite number, or whose change percent would imply a
// non-positive previous close are skipped; the skip count is returned so
// callers can report it. An empty snapshot is a valid outcome.
func ParseEquityFeed(raw string, day dates.Date) (*models.Snapshot, int) {
	snap := models.NewSnapshot(models.ClassEquity, day)
	skipped := 0

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			skipped++
			continue
		}

		symbol := strings.ToUpper(strings.TrimSpace(fields[0]))
		if symbol == "" {
			skipped++
			continue
		}
		price, err := parsePositiveDecimal(fields[1])
		if err != nil {
			skipped++
			continue
		}
		changePct, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
		if err != nil {
			skipped++
			continue
		}
		// A change of -100% or worse would back-derive a previous close
		// of zero or below.
		if changePct.LessThanOrEqual(decimal.NewFromInt(-100)) {
			skipped++
			continue
		}

		q := models.Quote{
			Symbol:        symbol,
			Price:         price,
			ChangePercent: changePct,
			AsOf:          day,
			Currency:      equityCurrency,
		}
		q.DeriveFromChangePercent()
		snap.Put(q)
	}

	return snap, skipped
}

// ParseFundFeed parses semicolon-delimited NAV rows into a snapshot stamped
// with day. Each row carries its own NAV date; rows with an unreadable date
// fall back to day. Rows missing a scheme code or a positive NAV are
// skipped.
func ParseFundFeed(raw string, day dates.Date) (*models.Snapshot, int) {
	snap := models.NewSnapshot(models.ClassFund, day)
	skipped := 0

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) < fundFieldsCount {
			// Section headers and fund-house names are single-field
			// lines and not data rows, skip them silently.
			continue
		}

		code := strings.TrimSpace(fields[fundFieldCode])
		if strings.EqualFold(code, "Scheme Code") {
			// The column-header row is delimited like a data row but is
			// not one; it does not count as skipped.
			continue
		}
		if code == "" {
			skipped++
			continue
		}
		nav, err := parsePositiveDecimal(fields[fundFieldNAV])
		if err != nil {
			skipped++
			continue
		}

		asOf := day
		if parsed, err := dates.ParseFeed(strings.TrimSpace(fields[fundFieldDate])); err == nil {
			asOf = parsed
		}

		snap.Put(models.FundNAV{
			SchemeCode: code,
			SchemeName: strings.TrimSpace(fields[fundFieldName]),
			NAV:        nav,
			AsOf:       asOf,
		})
	}

	return snap, skipped
}

func parsePositiveDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, errNonPositive
	}
	return d, nil
}
