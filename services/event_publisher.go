package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
)

// EventPublisher delivers order-lifecycle events to the message channel.
// Delivery is best-effort and at-most-once: callers log and discard errors,
// an order mutation never fails because publishing failed.
type EventPublisher interface {
	Publish(event models.OrderEvent) error
	Close() error
}

var eventPublisherInstance EventPublisher

// InitEventPublisher picks the publisher backend from configuration: a Kafka
// writer when brokers are configured, otherwise a log-only publisher
func InitEventPublisher(cfg *config.Config) EventPublisher {
	if cfg != nil && cfg.HasKafka() {
		eventPublisherInstance = NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	} else {
		eventPublisherInstance = &LogEventPublisher{}
	}
	return eventPublisherInstance
}

// GetEventPublisher returns the initialized event publisher instance
func GetEventPublisher() EventPublisher {
	return eventPublisherInstance
}

// SetEventPublisher sets the event publisher instance (primarily for testing)
func SetEventPublisher(publisher EventPublisher) {
	eventPublisherInstance = publisher
}

// KafkaEventPublisher publishes order events as JSON messages on a Kafka
// topic, keyed by order id
type KafkaEventPublisher struct {
	writer *kafka.Writer
}

// NewKafkaEventPublisher creates a publisher writing to the given brokers and
// topic
func NewKafkaEventPublisher(brokers []string, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Publish writes the event to Kafka with a bounded timeout
func (p *KafkaEventPublisher) Publish(event models.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

// LogEventPublisher is the no-broker fallback: it records events in the log
// and nothing else
type LogEventPublisher struct{}

// Publish logs the event
func (p *LogEventPublisher) Publish(event models.OrderEvent) error {
	config.Log.Info("order event",
		zap.String("event_id", event.EventID),
		zap.Uint("order_id", event.OrderID),
		zap.String("status", string(event.Status)),
		zap.String("message", event.Message),
	)
	return nil
}

// Close is a no-op for the log publisher
func (p *LogEventPublisher) Close() error {
	return nil
}
