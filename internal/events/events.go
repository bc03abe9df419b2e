// Package events defines the storefront's published event envelope and
// payloads. Events are informational fan-out (notifications, analytics);
// no component replays them to rebuild state.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeOrderPlaced = "order.placed"
	TypeItemAdded   = "cart.item_added"
	TypeItemUpdated = "cart.item_updated"
	TypeItemRemoved = "cart.item_removed"
	TypeCartCleared = "cart.cleared"
)

// Publisher sends an event keyed for partitioning. A nil Publisher is
// allowed everywhere one is accepted; publishing then becomes a no-op.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Envelope wraps every published payload.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Wrap builds an envelope around a payload.
func Wrap(eventType string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now(),
		Data:       data,
	}, nil
}

// OrderPlacedItem is one line of a placed order as published.
type OrderPlacedItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderPlaced is emitted once an order has been persisted. It carries
// everything the notifier needs so consumers stay store-free.
type OrderPlaced struct {
	OrderID           string            `json:"order_id"`
	UserID            string            `json:"user_id"`
	Email             string            `json:"email"`
	Items             []OrderPlacedItem `json:"items"`
	TotalAmount       float64           `json:"total_amount"`
	DeliveryAddress   string            `json:"delivery_address"`
	EstimatedDelivery time.Time         `json:"estimated_delivery"`
}

// CartActivity is emitted for cart mutations.
type CartActivity struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}
