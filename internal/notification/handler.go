// Package notification turns order-placed events into customer emails.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/grocery-storefront/internal/email"
	"github.com/example/grocery-storefront/internal/events"
)

// Sender is the slice of the email service the handler needs.
type Sender interface {
	SendOrderConfirmation(to string, order email.ConfirmationOrder) error
}

// Handler processes storefront events for notification fan-out.
type Handler struct {
	sender Sender
}

func NewHandler(sender Sender) *Handler {
	return &Handler{sender: sender}
}

// HandleEvent processes one event from the broker. Events other than
// order.placed are ignored.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var envelope events.Envelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		log.Printf("[Notifier] failed to unmarshal event: %v", err)
		return err
	}

	if envelope.Type != events.TypeOrderPlaced {
		return nil
	}
	return h.handleOrderPlaced(envelope)
}

func (h *Handler) handleOrderPlaced(envelope events.Envelope) error {
	var placed events.OrderPlaced
	if err := json.Unmarshal(envelope.Data, &placed); err != nil {
		log.Printf("[Notifier] failed to unmarshal order-placed event: %v", err)
		return err
	}

	if placed.Email == "" {
		log.Printf("[Notifier] order %s has no customer email, skipping", placed.OrderID)
		return nil
	}

	items := make([]email.ConfirmationItem, len(placed.Items))
	for i, item := range placed.Items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		items[i] = email.ConfirmationItem{
			Name:     name,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	order := email.ConfirmationOrder{
		OrderID:           placed.OrderID,
		Items:             items,
		TotalAmount:       placed.TotalAmount,
		DeliveryAddress:   placed.DeliveryAddress,
		EstimatedDelivery: placed.EstimatedDelivery,
	}

	if err := h.sender.SendOrderConfirmation(placed.Email, order); err != nil {
		log.Printf("[Notifier] failed to send email to %s: %v", placed.Email, err)
		return err
	}

	log.Printf("[Notifier] order confirmation sent to %s for order %s", placed.Email, placed.OrderID)
	return nil
}
