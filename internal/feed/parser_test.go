package feed

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/marketdata/internal/dates"
	"github.com/finbook/marketdata/internal/models"
)

var testDay = dates.New(2026, time.August, 29)

func TestParseEquityFeed(t *testing.T) {
	t.Run("parses valid rows", func(t *testing.T) {
		raw := "RELIANCE,2954.30,0.42\nTCS,4012.55,-0.31\n"
		snap, skipped := ParseEquityFeed(raw, testDay)

		assert.Equal(t, 0, skipped)
		require.Equal(t, 2, snap.Len())
		assert.Equal(t, models.ClassEquity, snap.Class)
		assert.True(t, snap.AsOf.Equal(testDay))

		rec, ok := snap.Get("RELIANCE")
		require.True(t, ok)
		q := rec.(models.Quote)
		assert.True(t, decimal.NewFromFloat(2954.30).Equal(q.Price))
		assert.True(t, q.AsOf.Equal(testDay))
		assert.Equal(t, "INR", q.Currency)
	})

	t.Run("back-derives previous close", func(t *testing.T) {
		snap, _ := ParseEquityFeed("ABC,110,10\n", testDay)

		rec, ok := snap.Get("ABC")
		require.True(t, ok)
		q := rec.(models.Quote)

		tolerance := decimal.NewFromFloat(0.0001)
		assert.True(t, q.PrevClose.Sub(decimal.NewFromInt(100)).Abs().LessThan(tolerance),
			"prevClose = %s, want ~100", q.PrevClose)
		assert.True(t, q.Change.Sub(decimal.NewFromInt(10)).Abs().LessThan(tolerance),
			"change = %s, want ~10", q.Change)
	})

	t.Run("uppercases symbols", func(t *testing.T) {
		snap, _ := ParseEquityFeed("infy,1856.40,-0.12\n", testDay)
		_, ok := snap.Get("INFY")
		assert.True(t, ok)
	})

	t.Run("skips malformed rows without aborting the batch", func(t *testing.T) {
		raw := "RELIANCE,2954.30,0.42\n" +
			"TCS,,\n" + // missing price
			",100,1\n" + // missing symbol
			"INFY,abc,0.5\n" + // unparseable price
			"SBIN,-10,0.5\n" + // non-positive price
			"WIPRO,548.30,-0.19\n"
		snap, skipped := ParseEquityFeed(raw, testDay)

		assert.Equal(t, 4, skipped)
		assert.Equal(t, 2, snap.Len())
		_, ok := snap.Get("RELIANCE")
		assert.True(t, ok)
		_, ok = snap.Get("WIPRO")
		assert.True(t, ok)
	})

	t.Run("skips change implying non-positive previous close", func(t *testing.T) {
		snap, skipped := ParseEquityFeed("DOOMED,5,-100\n", testDay)
		assert.Equal(t, 1, skipped)
		assert.True(t, snap.Empty())
	})

	t.Run("empty feed is a valid empty snapshot", func(t *testing.T) {
		snap, skipped := ParseEquityFeed("", testDay)
		assert.Equal(t, 0, skipped)
		assert.True(t, snap.Empty())
	})
}

func TestParseFundFeed(t *testing.T) {
	t.Run("parses delimited rows at their indexed positions", func(t *testing.T) {
		raw := "119551;INF846K01EW2;INF846K01EX0;Axis Bluechip Fund - Direct Plan - Growth;62.74;28-Nov-2025\n"
		snap, skipped := ParseFundFeed(raw, testDay)

		assert.Equal(t, 0, skipped)
		require.Equal(t, 1, snap.Len())

		rec, ok := snap.Get("119551")
		require.True(t, ok)
		nav := rec.(models.FundNAV)
		assert.Equal(t, "Axis Bluechip Fund - Direct Plan - Growth", nav.SchemeName)
		assert.True(t, decimal.NewFromFloat(62.74).Equal(nav.NAV))
		assert.True(t, nav.AsOf.Equal(dates.New(2025, time.November, 28)))
	})

	t.Run("ignores header and section lines without counting them", func(t *testing.T) {
		raw := "Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date\n" +
			"Open Ended Schemes(Equity Scheme - Large Cap Fund)\n" +
			"119551;INF846K01EW2;-;Axis Bluechip Fund;62.74;28-Nov-2025\n"
		snap, skipped := ParseFundFeed(raw, testDay)
		assert.Equal(t, 0, skipped)
		assert.Equal(t, 1, snap.Len())
	})

	t.Run("skips rows without a positive NAV", func(t *testing.T) {
		raw := "119551;-;-;Fund A;62.74;28-Nov-2025\n" +
			"119552;-;-;Fund B;N.A.;28-Nov-2025\n" +
			"119553;-;-;Fund C;0;28-Nov-2025\n" +
			";-;-;Fund D;10.00;28-Nov-2025\n"
		snap, skipped := ParseFundFeed(raw, testDay)

		assert.Equal(t, 3, skipped)
		assert.Equal(t, 1, snap.Len())
	})

	t.Run("unreadable row date falls back to fetch day", func(t *testing.T) {
		raw := "119551;-;-;Fund A;62.74;soon\n"
		snap, _ := ParseFundFeed(raw, testDay)

		rec, ok := snap.Get("119551")
		require.True(t, ok)
		assert.True(t, rec.(models.FundNAV).AsOf.Equal(testDay))
	})
}
