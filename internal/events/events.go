// Package events publishes order lifecycle notifications to a broker after
// the corresponding database change has committed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"batik-store/internal/model"

	"github.com/google/uuid"
)

// Routing keys and event type names.
const (
	OrderCreatedRoutingKey       = "order.created.v1"
	OrderStatusChangedRoutingKey = "order.status_changed.v1"

	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// Publisher emits order events.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *model.Order) error
	PublishOrderStatusChanged(ctx context.Context, orderID string, from, to model.Status) error
	Close() error
}

// Envelope wraps every event payload on the wire.
type Envelope struct {
	EventID    string          `json:"eventId"`
	EventType  string          `json:"eventType"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// OrderCreated is the payload of an order.created event.
type OrderCreated struct {
	OrderID       string             `json:"orderId"`
	CustomerEmail string             `json:"customerEmail"`
	Items         []OrderCreatedItem `json:"items"`
	Subtotal      int64              `json:"subtotal"`
	ShippingFee   int64              `json:"shippingFee"`
	Total         int64              `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// OrderCreatedItem is one line of an OrderCreated payload.
type OrderCreatedItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}

// OrderStatusChanged is the payload of an order.status_changed event.
type OrderStatusChanged struct {
	OrderID string       `json:"orderId"`
	From    model.Status `json:"from"`
	To      model.Status `json:"to"`
}

func newEnvelope(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	body, err := json.Marshal(Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}
	return body, nil
}

func orderCreatedBody(order *model.Order) ([]byte, error) {
	ev := OrderCreated{
		OrderID:       order.ID,
		CustomerEmail: order.Customer.Email,
		Items:         make([]OrderCreatedItem, len(order.Items)),
		Subtotal:      order.Subtotal,
		ShippingFee:   order.ShippingFee,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
	}
	for i, it := range order.Items {
		ev.Items[i] = OrderCreatedItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	return newEnvelope(EventTypeOrderCreated, ev)
}

func statusChangedBody(orderID string, from, to model.Status) ([]byte, error) {
	return newEnvelope(EventTypeOrderStatusChanged, OrderStatusChanged{OrderID: orderID, From: from, To: to})
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishOrderCreated(context.Context, *model.Order) error { return nil }

func (nopPublisher) PublishOrderStatusChanged(context.Context, string, model.Status, model.Status) error {
	return nil
}

func (nopPublisher) Close() error { return nil }
