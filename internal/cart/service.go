// Package cart implements the server-side session carts. A cart is a
// product→quantity map keyed by session ID; it lives in memory for the
// lifetime of the session and is never persisted. All stock checks run
// against the catalog at mutation time.
package cart

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/example/grocery-storefront/internal/events"
	"github.com/example/grocery-storefront/internal/infrastructure/store"
)

// Verdict is the outcome of a cart mutation as reported to the client:
// a logical accept/reject plus the user-facing message. Infrastructure
// problems surface as errors instead.
type Verdict struct {
	OK        bool
	Message   string
	CartCount int
}

// Line is one cart entry.
type Line struct {
	ProductID string
	Quantity  int
}

// Service owns every active session cart.
type Service struct {
	store     store.Store
	publisher events.Publisher

	mu    sync.Mutex
	carts map[string]map[string]int // sessionID -> productID -> quantity
}

func NewService(st store.Store, publisher events.Publisher) *Service {
	return &Service{
		store:     st,
		publisher: publisher,
		carts:     make(map[string]map[string]int),
	}
}

// AddItem adds quantity units of a product to the session's cart,
// enforcing the catalog's stock limits cumulatively.
func (s *Service) AddItem(ctx context.Context, sessionID, productID string, quantity int) (Verdict, error) {
	if quantity <= 0 {
		return reject("Invalid quantity"), nil
	}

	product, err := s.store.Product(ctx, productID)
	if err == store.ErrNotFound {
		return reject("Product not found or inactive"), nil
	}
	if err != nil {
		return Verdict{}, fmt.Errorf("product lookup: %w", err)
	}
	if !product.Active {
		return reject("Product not found or inactive"), nil
	}
	if product.IsOutOfStock() {
		return reject("Product is out of stock"), nil
	}
	if product.Stock < quantity {
		return reject(fmt.Sprintf("Only %d items available", product.Stock)), nil
	}

	s.mu.Lock()
	cart := s.carts[sessionID]
	if cart == nil {
		cart = make(map[string]int)
		s.carts[sessionID] = cart
	}
	current := cart[productID]
	if current+quantity > product.Stock {
		s.mu.Unlock()
		return reject(fmt.Sprintf("Cannot add %d items. Only %d more available", quantity, product.Stock-current)), nil
	}
	cart[productID] = current + quantity
	count := sum(cart)
	s.mu.Unlock()

	s.publish(ctx, events.TypeItemAdded, sessionID, events.CartActivity{
		SessionID: sessionID, ProductID: productID, Quantity: quantity,
	})

	return Verdict{
		OK:        true,
		Message:   fmt.Sprintf("Added %d %s to cart", quantity, product.Name),
		CartCount: count,
	}, nil
}

// UpdateItem sets a cart line to an exact quantity. A non-positive
// quantity removes the line; that is removal intent, not an error.
func (s *Service) UpdateItem(ctx context.Context, sessionID, productID string, quantity int) (Verdict, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}

	product, err := s.store.Product(ctx, productID)
	if err == store.ErrNotFound {
		return reject("Only 0 items available"), nil
	}
	if err != nil {
		return Verdict{}, fmt.Errorf("product lookup: %w", err)
	}
	if !product.Active || quantity > product.Stock {
		available := 0
		if product.Active {
			available = product.Stock
		}
		return reject(fmt.Sprintf("Only %d items available", available)), nil
	}

	s.mu.Lock()
	cart, ok := s.carts[sessionID]
	if !ok {
		s.mu.Unlock()
		return reject("Failed to update cart"), nil
	}
	cart[productID] = quantity
	count := sum(cart)
	s.mu.Unlock()

	s.publish(ctx, events.TypeItemUpdated, sessionID, events.CartActivity{
		SessionID: sessionID, ProductID: productID, Quantity: quantity,
	})

	return Verdict{OK: true, Message: "Cart updated", CartCount: count}, nil
}

// RemoveItem drops a product from the cart entirely.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (Verdict, error) {
	s.mu.Lock()
	cart, ok := s.carts[sessionID]
	if !ok {
		s.mu.Unlock()
		return reject("Item not found in cart"), nil
	}
	_, present := cart[productID]
	if !present {
		s.mu.Unlock()
		return reject("Item not found in cart"), nil
	}
	delete(cart, productID)
	count := sum(cart)
	s.mu.Unlock()

	s.publish(ctx, events.TypeItemRemoved, sessionID, events.CartActivity{
		SessionID: sessionID, ProductID: productID,
	})

	return Verdict{OK: true, Message: "Item removed from cart", CartCount: count}, nil
}

// Clear empties the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) (Verdict, error) {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()

	s.publish(ctx, events.TypeCartCleared, sessionID, events.CartActivity{SessionID: sessionID})

	return Verdict{OK: true, Message: "Cart cleared"}, nil
}

// Count returns the total number of items in the session's cart.
func (s *Service) Count(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sum(s.carts[sessionID])
}

// Lines returns the session's cart contents in stable product order.
func (s *Service) Lines(sessionID string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[sessionID]
	lines := make([]Line, 0, len(cart))
	for productID, quantity := range cart {
		lines = append(lines, Line{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

func (s *Service) publish(ctx context.Context, eventType, key string, payload any) {
	if s.publisher == nil {
		return
	}
	envelope, err := events.Wrap(eventType, payload)
	if err != nil {
		log.Printf("[Cart] failed to build %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish(ctx, key, envelope); err != nil {
		log.Printf("[Cart] failed to publish %s event: %v", eventType, err)
	}
}

func reject(message string) Verdict {
	return Verdict{OK: false, Message: message}
}

func sum(cart map[string]int) int {
	total := 0
	for _, q := range cart {
		total += q
	}
	return total
}
