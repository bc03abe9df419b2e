// Package api exposes the storefront's HTTP surface. Cart and order
// mutations answer HTTP 200 with a {success, message} body for logical
// failures; non-200 statuses are reserved for transport-level problems
// (bad JSON, missing auth, infrastructure errors).
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/example/grocery-storefront/internal/api/middleware"
	"github.com/example/grocery-storefront/internal/cart"
	"github.com/example/grocery-storefront/internal/infrastructure/store"
	"github.com/example/grocery-storefront/internal/order"
)

// actionResponse is the wire shape for every cart/order mutation.
type actionResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	CartCount int    `json:"cart_count,omitempty"`
}

type Handlers struct {
	carts    *cart.Service
	orders   *order.Service
	catalog  store.Store
}

func NewHandlers(carts *cart.Service, orders *order.Service, catalog store.Store) *Handlers {
	return &Handlers{carts: carts, orders: orders, catalog: catalog}
}

// CartCount serves GET /api/cart/count.
func (h *Handlers) CartCount(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]int{"count": h.carts.Count(sessionID(r))})
}

// AddToCart serves POST /add_to_cart.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  *int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	verdict, err := h.carts.AddItem(r.Context(), sessionID(r), req.ProductID, quantity)
	if err != nil {
		log.Printf("[API] add to cart: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondVerdict(w, verdict)
}

// UpdateCart serves POST /update_cart.
func (h *Handlers) UpdateCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	verdict, err := h.carts.UpdateItem(r.Context(), sessionID(r), req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("[API] update cart: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondVerdict(w, verdict)
}

// RemoveFromCart serves POST /remove_from_cart.
func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	verdict, err := h.carts.RemoveItem(r.Context(), sessionID(r), req.ProductID)
	if err != nil {
		log.Printf("[API] remove from cart: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondVerdict(w, verdict)
}

// ClearCart serves POST /clear_cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	verdict, err := h.carts.Clear(r.Context(), sessionID(r))
	if err != nil {
		log.Printf("[API] clear cart: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondVerdict(w, verdict)
}

// PlaceOrder serves POST /place_order. Requires authentication.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Address       string `json:"address"`
		Phone         string `json:"phone"`
		Instructions  string `json:"instructions"`
		DeliveryType  string `json:"delivery_type"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.orders.Place(r.Context(), claims.UserID, sessionID(r), order.Submission{
		Address:       req.Address,
		Phone:         req.Phone,
		Instructions:  req.Instructions,
		DeliveryType:  req.DeliveryType,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		log.Printf("[API] place order: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, actionResponse{Success: result.OK, Message: result.Message})
}

// Orders serves GET /api/orders. Requires authentication.
func (h *Handlers) Orders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("[API] list orders: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// Products serves GET /api/products, the catalog listing the storefront
// renders product pages from.
func (h *Handlers) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		log.Printf("[API] list products: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondVerdict(w http.ResponseWriter, v cart.Verdict) {
	respondJSON(w, http.StatusOK, actionResponse{
		Success:   v.OK,
		Message:   v.Message,
		CartCount: v.CartCount,
	})
}

// sessionID identifies the caller's cart: the X-Session-ID header, the
// session_id cookie, or a shared anonymous fallback.
func sessionID(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	if cookie, err := r.Cookie("session_id"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return "default-session"
}
