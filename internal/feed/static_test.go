package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/marketdata/internal/dates"
	"github.com/finbook/marketdata/internal/models"
)

func TestStaticLoader(t *testing.T) {
	loader := NewStaticLoader()

	t.Run("equity bundle is never empty", func(t *testing.T) {
		snap := loader.Snapshot(models.ClassEquity)
		require.NotNil(t, snap)
		assert.False(t, snap.Empty())

		rec, ok := snap.Get("RELIANCE")
		require.True(t, ok)
		q := rec.(models.Quote)
		assert.True(t, q.Price.IsPositive())
	})

	t.Run("fund bundle is never empty", func(t *testing.T) {
		snap := loader.Snapshot(models.ClassFund)
		require.NotNil(t, snap)
		assert.False(t, snap.Empty())
	})

	t.Run("keeps the bundle's original capture date", func(t *testing.T) {
		snap := loader.Snapshot(models.ClassEquity)
		assert.True(t, snap.AsOf.Equal(staticAsOf))
		assert.False(t, snap.AsOf.Equal(dates.Today()),
			"static data must not look like a same-day snapshot")
	})

	t.Run("repeated loads return the same snapshot", func(t *testing.T) {
		first := loader.Snapshot(models.ClassEquity)
		second := loader.Snapshot(models.ClassEquity)
		assert.Same(t, first, second)
	})
}
