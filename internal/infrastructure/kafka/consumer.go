package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

// EventHandler processes one decoded event envelope.
type EventHandler func(ctx context.Context, e *Envelope) error

// Consumer reads marketplace events from the shared topic as part of a
// consumer group, so multiple notifier instances split the partitions.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Consume reads and decodes envelopes until the context is cancelled.
// Undecodable messages and handler errors are logged and skipped; the offset
// keeps moving so one poison message cannot wedge the group.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[Kafka] Read error: %v", err)
				continue
			}

			var envelope Envelope
			if err := json.Unmarshal(msg.Value, &envelope); err != nil {
				log.Printf("[Kafka] Skipping undecodable message at offset %d: %v", msg.Offset, err)
				continue
			}

			if err := handler(ctx, &envelope); err != nil {
				log.Printf("[Kafka] Handler error for %s event %s: %v",
					envelope.EventType, envelope.ID, err)
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
