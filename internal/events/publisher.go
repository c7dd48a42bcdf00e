package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// writeTimeout is the maximum time to wait for a Kafka write.
const writeTimeout = 10 * time.Second

// Publisher wraps a Kafka writer publishing alert lifecycle events.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher configures a synchronous writer with at-least-once semantics,
// partitioned by alert id.
func NewPublisher(brokers, topic string) (*Publisher, error) {
	if brokers == "" {
		return nil, fmt.Errorf("brokers cannot be empty")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	brokerList := strings.Split(brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerList...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Publisher{writer: writer}, nil
}

// Publish serializes the event to JSON and writes it keyed by alert id.
func (p *Publisher) Publish(ctx context.Context, ev AlertEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.AlertID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s for alert %s: %w", ev.Type, ev.AlertID, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
