// Package cache owns snapshot resolution: the in-memory copy, the durable
// store, and the fallback chain through remote fetch to the static bundle.
package cache

import (
	"context"

	"github.com/finbook/marketdata/internal/dates"
	"github.com/finbook/marketdata/internal/models"
)

// Store is the durable snapshot store. One logical slot per instrument
// class, plus a shared last-fetch-date marker.
type Store interface {
	// SaveSnapshot durably stores the snapshot under its class slot.
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error

	// LoadSnapshot returns the stored snapshot for class, or (nil, nil)
	// when the slot is empty or the stored snapshot's day is not `day`.
	// An expired snapshot is treated as absent, never partially valid.
	LoadSnapshot(ctx context.Context, class models.InstrumentClass, day dates.Date) (*models.Snapshot, error)

	// DeleteSnapshot removes the class slot. Deleting an empty slot is
	// not an error.
	DeleteSnapshot(ctx context.Context, class models.InstrumentClass) error
}
