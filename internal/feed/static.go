package feed

import (
	"embed"
	"sync"
	"time"

	"github.com/finbook/marketdata/internal/dates"
	"github.com/finbook/marketdata/internal/models"
)

//go:embed data/equities.csv data/funds.txt
var staticData embed.FS

// staticAsOf is the day the bundled feed files were captured. Static
// snapshots keep this original date so callers never mistake them for
// same-day data.
var staticAsOf = dates.New(2025, time.November, 28)

// StaticLoader serves the bundled last-known-good snapshots. It is the
// terminal fallback tier: pure in-memory construction that always succeeds.
type StaticLoader struct {
	once      sync.Once
	snapshots map[models.InstrumentClass]*models.Snapshot
}

// NewStaticLoader returns a loader over the bundled feed files.
func NewStaticLoader() *StaticLoader {
	return &StaticLoader{}
}

// Snapshot returns the bundled snapshot for class. The result is stamped
// with the bundle's original capture date, which is generally stale.
func (l *StaticLoader) Snapshot(class models.InstrumentClass) *models.Snapshot {
	l.once.Do(l.load)
	if snap, ok := l.snapshots[class]; ok {
		return snap
	}
	return models.NewSnapshot(class, staticAsOf)
}

func (l *StaticLoader) load() {
	l.snapshots = make(map[models.InstrumentClass]*models.Snapshot)

	// The bundle is validated at build time; unreadable rows are skipped
	// the same way live feed rows are.
	if raw, err := staticData.ReadFile("data/equities.csv"); err == nil {
		snap, _ := ParseEquityFeed(string(raw), staticAsOf)
		l.snapshots[models.ClassEquity] = snap
	}
	if raw, err := staticData.ReadFile("data/funds.txt"); err == nil {
		snap, _ := ParseFundFeed(string(raw), staticAsOf)
		l.snapshots[models.ClassFund] = snap
	}
}
