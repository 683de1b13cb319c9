// Package events publishes cache-change events so the owning application
// can refresh any screens showing prices.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/finbook/marketdata/internal/models"
)

// Producer handles publishing cache events to Kafka.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishSnapshotRefreshed publishes a snapshot refreshed event.
func (p *Producer) PublishSnapshotRefreshed(ctx context.Context, snap *models.Snapshot, tier models.Tier) error {
	event := models.CacheEvent{
		EventID:   uuid.NewString(),
		EventType: models.EventSnapshotRefreshed,
		Class:     snap.Class,
		Tier:      tier,
		Records:   snap.Len(),
		AsOf:      snap.AsOf,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, string(snap.Class), event)
}

// PublishCacheCleared publishes a cache cleared event.
func (p *Producer) PublishCacheCleared(ctx context.Context, class models.InstrumentClass) error {
	event := models.CacheEvent{
		EventID:   uuid.NewString(),
		EventType: models.EventCacheCleared,
		Class:     class,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, string(class), event)
}

func (p *Producer) publish(ctx context.Context, key string, event models.CacheEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
