package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finbook/marketdata/internal/dates"
	"github.com/finbook/marketdata/internal/models"
)

// SaveSnapshot upserts the snapshot into its class slot. One row per class;
// a fresher snapshot replaces the previous one wholesale.
func (db *DB) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO market_snapshots (class, as_of, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (class) DO UPDATE SET
			as_of = EXCLUDED.as_of,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`
	_, err = db.conn.ExecContext(ctx, query, string(snap.Class), snap.AsOf.Time(), payload, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored snapshot for class when it is stamped
// with day. An absent slot and a slot holding another day's snapshot both
// return (nil, nil): expired entries are never served.
func (db *DB) LoadSnapshot(ctx context.Context, class models.InstrumentClass, day dates.Date) (*models.Snapshot, error) {
	query := `
		SELECT as_of, payload
		FROM market_snapshots
		WHERE class = $1
	`
	var asOf time.Time
	var payload []byte

	err := db.conn.QueryRowContext(ctx, query, string(class)).Scan(&asOf, &payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if !dates.FromTime(asOf).Equal(day) {
		return nil, nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// DeleteSnapshot removes the class slot.
func (db *DB) DeleteSnapshot(ctx context.Context, class models.InstrumentClass) error {
	query := `DELETE FROM market_snapshots WHERE class = $1`
	if _, err := db.conn.ExecContext(ctx, query, string(class)); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
