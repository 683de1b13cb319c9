package models

import (
	"time"

	"github.com/finbook/marketdata/internal/dates"
)

// CacheEvent represents a Kafka event for cache changes. The owning
// application consumes these to invalidate any screens showing prices.
type CacheEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Class     InstrumentClass `json:"class"`
	Tier      Tier            `json:"tier,omitempty"`
	Records   int             `json:"records"`
	AsOf      dates.Date      `json:"as_of,omitzero"`
	Timestamp time.Time       `json:"timestamp"`
}

// Cache event types.
const (
	EventSnapshotRefreshed = "SNAPSHOT_REFRESHED"
	EventCacheCleared      = "CACHE_CLEARED"
)
