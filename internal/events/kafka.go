package events

import (
	"context"
	"fmt"
	"time"

	"batik-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	w       messageWriter
	timeout time.Duration
	logger  zerolog.Logger
}

// NewKafkaPublisher publishes order events to topic, keyed by order ID so
// all events of one order land on the same partition.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w messageWriter, logger zerolog.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		w:       w,
		timeout: 5 * time.Second,
		logger:  logger.With().Str("publisher", "kafka").Logger(),
	}
}

func (p *kafkaPublisher) PublishOrderCreated(ctx context.Context, order *model.Order) error {
	body, err := orderCreatedBody(order)
	if err != nil {
		return err
	}
	return p.write(ctx, order.ID, EventTypeOrderCreated, body)
}

func (p *kafkaPublisher) PublishOrderStatusChanged(ctx context.Context, orderID string, from, to model.Status) error {
	body, err := statusChangedBody(orderID, from, to)
	if err != nil {
		return err
	}
	return p.write(ctx, orderID, EventTypeOrderStatusChanged, body)
}

func (p *kafkaPublisher) write(ctx context.Context, key, eventType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("write %s to kafka: %w", eventType, err)
	}

	p.logger.Debug().Str("order_id", key).Str("event_type", eventType).Msg("event published")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.w.Close()
}
