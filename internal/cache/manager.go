package cache

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/finbook/marketdata/internal/dates"
	"github.com/finbook/marketdata/internal/models"
)

// RemoteFetcher resolves the current day's snapshot from the configured
// remote sources. It never fails; total failure is an empty snapshot.
type RemoteFetcher interface {
	Fetch(ctx context.Context, class models.InstrumentClass) *models.Snapshot
}

// StaticSource serves the bundled last-known-good snapshot.
type StaticSource interface {
	Snapshot(class models.InstrumentClass) *models.Snapshot
}

// Publisher notifies the owning application of cache changes. May be nil.
type Publisher interface {
	PublishSnapshotRefreshed(ctx context.Context, snap *models.Snapshot, tier models.Tier) error
	PublishCacheCleared(ctx context.Context, class models.InstrumentClass) error
}

// entry is one class's in-memory slot. resolvedOn records the day the
// resolution ran, which for static-tier snapshots differs from snap.AsOf.
type entry struct {
	snap       *models.Snapshot
	tier       models.Tier
	resolvedOn dates.Date
}

// Manager orchestrates snapshot resolution per instrument class through the
// tier chain: in-memory, durable store, remote fetch, static bundle. It is
// the only writer of the in-memory slots and the store.
type Manager struct {
	store     Store
	remote    RemoteFetcher
	static    StaticSource
	publisher Publisher
	now       func() dates.Date
	log       zerolog.Logger

	mu     sync.RWMutex
	mem    map[models.InstrumentClass]*entry
	flight singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock substitutes the day source, used by tests to cross day
// boundaries without sleeping.
func WithClock(now func() dates.Date) Option {
	return func(m *Manager) { m.now = now }
}

// WithPublisher attaches a cache-event publisher.
func WithPublisher(p Publisher) Option {
	return func(m *Manager) { m.publisher = p }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a Manager over the given tiers.
func NewManager(store Store, remote RemoteFetcher, static StaticSource, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		remote: remote,
		static: static,
		now:    dates.Today,
		log:    zerolog.Nop(),
		mem:    make(map[models.InstrumentClass]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve returns the current snapshot for class, consulting the tiers in
// order and stopping at the first non-empty result. It never returns an
// error: the worst case is an empty snapshot, which callers treat as
// "pricing unavailable". Concurrent calls for the same class share one
// in-flight resolution.
func (m *Manager) Resolve(ctx context.Context, class models.InstrumentClass) *models.Snapshot {
	if snap := m.fresh(class); snap != nil {
		return snap
	}

	v, _, _ := m.flight.Do(string(class), func() (interface{}, error) {
		// A queued caller may arrive after the winner finished.
		if snap := m.fresh(class); snap != nil {
			return snap, nil
		}
		return m.resolve(ctx, class, false), nil
	})
	return v.(*models.Snapshot)
}

// Refresh forces a new resolution, bypassing the in-memory and persistent
// tiers but keeping the remote and static fallbacks.
func (m *Manager) Refresh(ctx context.Context, class models.InstrumentClass) *models.Snapshot {
	v, _, _ := m.flight.Do(string(class), func() (interface{}, error) {
		return m.resolve(ctx, class, true), nil
	})
	return v.(*models.Snapshot)
}

// Clear empties the in-memory slot and removes the persistent entry.
func (m *Manager) Clear(ctx context.Context, class models.InstrumentClass) error {
	m.mu.Lock()
	delete(m.mem, class)
	m.mu.Unlock()

	if err := m.store.DeleteSnapshot(ctx, class); err != nil {
		return err
	}
	if m.publisher != nil {
		if err := m.publisher.PublishCacheCleared(ctx, class); err != nil {
			m.log.Warn().Err(err).Str("class", string(class)).Msg("failed to publish cache cleared event")
		}
	}
	return nil
}

// Status reports the diagnostic state of one class's in-memory slot.
func (m *Manager) Status(class models.InstrumentClass) models.CacheStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.mem[class]
	if !ok || e.snap.Empty() {
		return models.CacheStatus{Class: class, Tier: models.TierNone}
	}
	return models.CacheStatus{
		Class:     class,
		Available: true,
		Count:     e.snap.Len(),
		AsOf:      e.snap.AsOf.String(),
		Tier:      e.tier,
	}
}

// Tier returns the tier the current in-memory snapshot came from.
func (m *Manager) Tier(class models.InstrumentClass) models.Tier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.mem[class]; ok {
		return e.tier
	}
	return models.TierNone
}

// fresh returns the in-memory snapshot when it is still valid today. A
// remote or store snapshot is valid while its own date is today; a static
// snapshot carries its original stale date, so it is held for the rest of
// the day it was resolved on instead, without ever being presented as
// same-day data.
func (m *Manager) fresh(class models.InstrumentClass) *models.Snapshot {
	today := m.now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.mem[class]
	if !ok {
		return nil
	}
	if e.tier == models.TierStatic {
		if e.resolvedOn.Equal(today) && !e.snap.Empty() {
			return e.snap
		}
		return nil
	}
	if e.snap.AsOf.Equal(today) && !e.snap.Empty() {
		return e.snap
	}
	return nil
}

// resolve runs the chain below the in-memory tier. Callers hold the
// single-flight slot for the class.
func (m *Manager) resolve(ctx context.Context, class models.InstrumentClass, skipStore bool) *models.Snapshot {
	today := m.now()

	if !skipStore {
		snap, err := m.store.LoadSnapshot(ctx, class, today)
		if err != nil {
			m.log.Warn().Err(err).Str("class", string(class)).Msg("snapshot store read failed")
		}
		if snap != nil && !snap.Empty() {
			m.keep(class, snap, models.TierStore, today)
			return snap
		}
	}

	snap := m.remote.Fetch(ctx, class)
	if !snap.Empty() {
		m.keep(class, snap, models.TierRemote, today)
		// Durability is best effort: a write failure loses nothing but
		// the store copy.
		if err := m.store.SaveSnapshot(ctx, snap); err != nil {
			m.log.Warn().Err(err).Str("class", string(class)).Msg("snapshot store write failed")
		}
		if m.publisher != nil {
			if err := m.publisher.PublishSnapshotRefreshed(ctx, snap, models.TierRemote); err != nil {
				m.log.Warn().Err(err).Str("class", string(class)).Msg("failed to publish refresh event")
			}
		}
		return snap
	}

	// Terminal fallback. Kept in memory for the rest of the day but not
	// persisted: its dates are stale and must not occupy the store slot a
	// later real fetch would fill.
	snap = m.static.Snapshot(class)
	m.keep(class, snap, models.TierStatic, today)
	m.log.Info().
		Str("class", string(class)).
		Int("records", snap.Len()).
		Msg("serving static fallback snapshot")
	return snap
}

func (m *Manager) keep(class models.InstrumentClass, snap *models.Snapshot, tier models.Tier, today dates.Date) {
	m.mu.Lock()
	m.mem[class] = &entry{snap: snap, tier: tier, resolvedOn: today}
	m.mu.Unlock()
}
