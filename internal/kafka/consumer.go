package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// The worker fleet is small, so short heartbeats keep rebalances quick
// without flooding the brokers.
const (
	consumerHeartbeat      = 3 * time.Second
	consumerSessionTimeout = 30 * time.Second
)

// Handler processes one message. Returning an error stops the consume loop;
// a handler that wants to skip a bad message returns nil.
type Handler func(context.Context, kafka.Message) error

// Consumer reads a single topic as part of a consumer group. Each topic the
// worker listens on gets its own Consumer.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: consumerHeartbeat,
			SessionTimeout:    consumerSessionTimeout,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks reading messages until the context is canceled or the
// handler fails. Offsets are committed as messages are read.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}
