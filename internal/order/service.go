// Package order implements order placement: the one place cart contents
// become durable state. Totals are computed here and only here; clients
// re-render from the server rather than doing their own arithmetic.
package order

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/grocery-storefront/internal/cart"
	"github.com/example/grocery-storefront/internal/events"
	"github.com/example/grocery-storefront/internal/infrastructure/store"
	"github.com/example/grocery-storefront/internal/model"
	"github.com/example/grocery-storefront/internal/validate"
)

// Pricing and delivery constants, matching the store's checkout page.
const (
	DeliveryFee = 5.0
	TaxRate     = 0.05

	standardDeliveryETA = 3 * time.Hour
	expressDeliveryETA  = 1 * time.Hour
)

// Submission is what the customer provides at checkout.
type Submission struct {
	Address       string
	Phone         string
	Instructions  string
	DeliveryType  string
	PaymentMethod string
}

// Result is the logical outcome of a placement attempt. Order is set
// only when OK.
type Result struct {
	OK      bool
	Message string
	Order   *model.Order
}

// Service places orders.
type Service struct {
	store     store.Store
	carts     *cart.Service
	publisher events.Publisher
}

func NewService(st store.Store, carts *cart.Service, publisher events.Publisher) *Service {
	return &Service{store: st, carts: carts, publisher: publisher}
}

// Place validates the submission and the cart, freezes the cart into an
// order, decrements stock, persists the order, publishes an
// order-placed event and clears the cart. Validation failures come back
// as rejected Results; only infrastructure problems return errors.
func (s *Service) Place(ctx context.Context, userID, sessionID string, sub Submission) (Result, error) {
	lines := s.carts.Lines(sessionID)
	if len(lines) == 0 {
		return rejected("Cart is empty"), nil
	}

	address := strings.TrimSpace(sub.Address)
	if address == "" {
		return rejected("Delivery address is required"), nil
	}
	phone := strings.TrimSpace(sub.Phone)
	if phone == "" {
		return rejected("Phone number is required"), nil
	}
	if !validate.Phone(phone) {
		return rejected("Please enter a valid phone number"), nil
	}

	deliveryType := sub.DeliveryType
	if deliveryType != model.DeliveryExpress {
		deliveryType = model.DeliveryStandard
	}
	paymentMethod := sub.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	// First pass: validate every line against current stock, so a
	// rejection leaves both stock and cart untouched.
	products := make(map[string]*model.Product, len(lines))
	for _, line := range lines {
		product, err := s.store.Product(ctx, line.ProductID)
		if err == store.ErrNotFound {
			return rejected("Insufficient stock for Unknown product"), nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("product lookup: %w", err)
		}
		if !product.Active || product.Stock < line.Quantity {
			return rejected("Insufficient stock for " + product.Name), nil
		}
		products[line.ProductID] = product
	}

	now := time.Now()
	o := &model.Order{
		ID:                  uuid.New().String(),
		UserID:              userID,
		Status:              model.OrderStatusPending,
		PaymentMethod:       paymentMethod,
		DeliveryType:        deliveryType,
		DeliveryAddress:     address,
		PhoneNumber:         validate.DigitsOnly(phone),
		SpecialInstructions: strings.TrimSpace(sub.Instructions),
		CreatedAt:           now,
	}

	for _, line := range lines {
		product := products[line.ProductID]
		item := model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
		}
		if product.IsOnSale() {
			item.OriginalPrice = product.OriginalPrice
		}
		o.Items = append(o.Items, item)
		o.Subtotal += product.Price * float64(line.Quantity)
	}

	o.DeliveryFee = DeliveryFee
	o.TaxAmount = o.Subtotal * TaxRate
	o.TotalAmount = o.Subtotal + o.DeliveryFee + o.TaxAmount

	if deliveryType == model.DeliveryExpress {
		o.EstimatedDelivery = now.Add(expressDeliveryETA)
	} else {
		o.EstimatedDelivery = now.Add(standardDeliveryETA)
	}

	// Decrement stock last. A failure on any line, or on the save below,
	// restores the decrements already applied.
	applied := make([]model.OrderItem, 0, len(o.Items))
	restore := func() {
		for _, item := range applied {
			if err := s.store.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				log.Printf("[Order] failed to restore stock for %s: %v", item.ProductID, err)
			}
		}
	}

	for _, item := range o.Items {
		if err := s.store.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			restore()
			if err == store.ErrInsufficient {
				// A concurrent order depleted this line after the first pass.
				return rejected("Insufficient stock for " + item.Name), nil
			}
			return Result{}, fmt.Errorf("stock adjust for %s: %w", item.ProductID, err)
		}
		applied = append(applied, item)
	}

	if err := s.store.SaveOrder(ctx, o); err != nil {
		restore()
		return Result{}, fmt.Errorf("save order: %w", err)
	}

	s.publishPlaced(ctx, o)

	if _, err := s.carts.Clear(ctx, sessionID); err != nil {
		log.Printf("[Order] failed to clear cart for session %s: %v", sessionID, err)
	}

	return Result{
		OK:      true,
		Message: "Order placed successfully!",
		Order:   o,
	}, nil
}

// ListByUser returns the user's order history, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.store.OrdersByUser(ctx, userID)
}

func (s *Service) publishPlaced(ctx context.Context, o *model.Order) {
	if s.publisher == nil {
		return
	}

	email := ""
	if user, err := s.store.User(ctx, o.UserID); err == nil {
		email = user.Email
	}

	items := make([]events.OrderPlacedItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = events.OrderPlacedItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	envelope, err := events.Wrap(events.TypeOrderPlaced, events.OrderPlaced{
		OrderID:           o.ID,
		UserID:            o.UserID,
		Email:             email,
		Items:             items,
		TotalAmount:       o.TotalAmount,
		DeliveryAddress:   o.DeliveryAddress,
		EstimatedDelivery: o.EstimatedDelivery,
	})
	if err != nil {
		log.Printf("[Order] failed to build order-placed event: %v", err)
		return
	}
	if err := s.publisher.Publish(ctx, o.ID, envelope); err != nil {
		// The order is already durable; event delivery is best effort.
		log.Printf("[Order] failed to publish order-placed event for %s: %v", o.ID, err)
	}
}

func rejected(message string) Result {
	return Result{OK: false, Message: message}
}
