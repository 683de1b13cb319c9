package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/finbook/marketdata/internal/dates"
	"github.com/finbook/marketdata/internal/models"
)

const (
	redisSnapshotKeyPrefix = "marketdata:snapshot:"
	redisLastFetchKey      = "marketdata:last_fetch"
)

// RedisStore persists snapshots as JSON values, one key per class slot.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SaveSnapshot stores the snapshot and updates the shared last-fetch date.
func (s *RedisStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := redisSnapshotKeyPrefix + string(snap.Class)
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	// Best effort; the snapshot itself carries its own date.
	s.client.Set(ctx, redisLastFetchKey, snap.AsOf.String(), 0)
	return nil
}

// LoadSnapshot returns the stored snapshot for class if it is stamped with
// day, otherwise (nil, nil).
func (s *RedisStore) LoadSnapshot(ctx context.Context, class models.InstrumentClass, day dates.Date) (*models.Snapshot, error) {
	key := redisSnapshotKeyPrefix + string(class)
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if !snap.AsOf.Equal(day) {
		return nil, nil
	}
	return &snap, nil
}

// DeleteSnapshot removes the class slot.
func (s *RedisStore) DeleteSnapshot(ctx context.Context, class models.InstrumentClass) error {
	key := redisSnapshotKeyPrefix + string(class)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// LastFetch returns the day of the most recent successful fetch across
// classes, if any.
func (s *RedisStore) LastFetch(ctx context.Context) (dates.Date, bool, error) {
	val, err := s.client.Get(ctx, redisLastFetchKey).Result()
	if errors.Is(err, redis.Nil) {
		return dates.Date{}, false, nil
	}
	if err != nil {
		return dates.Date{}, false, fmt.Errorf("failed to load last fetch date: %w", err)
	}
	day, err := dates.Parse(val)
	if err != nil {
		return dates.Date{}, false, err
	}
	return day, true, nil
}
