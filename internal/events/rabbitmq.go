package events

import (
	"context"
	"fmt"
	"time"

	"batik-store/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type rabbitPublisher struct {
	ch       amqpChannel
	exchange string
	logger   zerolog.Logger
}

// NewRabbitPublisher opens a channel on conn and declares a durable topic
// exchange for order events.
func NewRabbitPublisher(conn *amqp.Connection, exchange string, logger zerolog.Logger) (Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := newRabbitPublisher(ch, exchange, logger)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func newRabbitPublisher(ch amqpChannel, exchange string, logger zerolog.Logger) (*rabbitPublisher, error) {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &rabbitPublisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With().Str("publisher", "rabbitmq").Logger(),
	}, nil
}

func (p *rabbitPublisher) PublishOrderCreated(ctx context.Context, order *model.Order) error {
	body, err := orderCreatedBody(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, OrderCreatedRoutingKey, EventTypeOrderCreated, order.ID, body)
}

func (p *rabbitPublisher) PublishOrderStatusChanged(ctx context.Context, orderID string, from, to model.Status) error {
	body, err := statusChangedBody(orderID, from, to)
	if err != nil {
		return err
	}
	return p.publish(ctx, OrderStatusChangedRoutingKey, EventTypeOrderStatusChanged, orderID, body)
}

func (p *rabbitPublisher) publish(ctx context.Context, routingKey, eventType, orderID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := p.ch.PublishWithContext(pubCtx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	p.logger.Debug().Str("order_id", orderID).Str("routing_key", routingKey).Msg("event published")
	return nil
}

func (p *rabbitPublisher) Close() error {
	return p.ch.Close()
}
