// Package controller implements the storefront's cart/order flows: it
// translates user actions into API calls, validates inputs before
// anything is sent, and reconciles the page with the server's verdict.
// Every failure path leaves the page interactive; nothing is retried.
package controller

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/example/grocery-storefront/internal/notify"
	"github.com/example/grocery-storefront/internal/shopapi"
	"github.com/example/grocery-storefront/internal/ui"
	"github.com/example/grocery-storefront/internal/validate"
)

// API is the slice of the shop client the controller needs.
type API interface {
	CartCount(ctx context.Context) (int, error)
	AddToCart(ctx context.Context, productID string, quantity int) (*shopapi.ActionResult, error)
	UpdateCart(ctx context.Context, productID string, quantity int) (*shopapi.ActionResult, error)
	RemoveFromCart(ctx context.Context, productID string) (*shopapi.ActionResult, error)
	ClearCart(ctx context.Context) (*shopapi.ActionResult, error)
	PlaceOrder(ctx context.Context, address, phone string) (*shopapi.ActionResult, error)
}

// User-facing messages. The server's message takes precedence where one
// is supplied; these are the local and fallback texts.
const (
	msgGenericError    = "Something went wrong. Please try again."
	msgInvalidQuantity = "Invalid quantity"
	msgAddressRequired = "Please enter delivery address"
	msgInvalidPhone    = "Please enter a valid phone number"
	msgAdded           = "Added to cart!"
	msgRemoved         = "Item removed from cart"
	msgCartCleared     = "Cart cleared"
	msgOrderPlaced     = "Order placed successfully!"

	promptRemoveItem = "Remove this item from your cart?"
	promptClearCart  = "Clear your entire cart?"
)

// OrdersPath is where a successful order submission navigates to.
const OrdersPath = "/orders"

// orderRedirectDelay gives the success notification time to be seen
// before navigating away.
const orderRedirectDelay = 2 * time.Second

// Controller drives the storefront page. All state it touches lives
// behind the injected ports; the controller itself is stateless between
// operations.
type Controller struct {
	api      API
	page     ui.Page
	confirm  ui.Confirmer
	notifier *notify.Notifier

	// after schedules the delayed post-order navigation. Tests replace
	// it to fire deterministically.
	after func(d time.Duration, fn func())
}

func New(api API, page ui.Page, confirm ui.Confirmer, notifier *notify.Notifier) *Controller {
	return &Controller{
		api:      api,
		page:     page,
		confirm:  confirm,
		notifier: notifier,
		after:    func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// Notify surfaces a transient message to the user.
func (c *Controller) Notify(message string, severity notify.Severity) {
	c.notifier.Show(message, severity)
}

// RefreshCartCount re-fetches the cart item count and writes the badge.
// Failures are logged, never surfaced; the badge keeps its old value.
func (c *Controller) RefreshCartCount(ctx context.Context) {
	count, err := c.api.CartCount(ctx)
	if err != nil {
		log.Printf("[Controller] cart count refresh failed: %v", err)
		return
	}
	c.page.SetCartCount(count)
}

// AddToCart adds a product using the quantity from its per-product
// input field, defaulting to 1 when the field is absent or unreadable.
func (c *Controller) AddToCart(ctx context.Context, productID string) {
	c.AddToCartQuantity(ctx, productID, c.resolveQuantity(productID))
}

// AddToCartQuantity adds an explicit quantity of a product. Quantities
// below 1 are rejected locally; no request is sent.
func (c *Controller) AddToCartQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		c.Notify(msgInvalidQuantity, notify.SeverityError)
		return
	}

	result, err := c.api.AddToCart(ctx, productID, quantity)
	if err != nil {
		log.Printf("[Controller] add to cart failed: %v", err)
		c.Notify(msgGenericError, notify.SeverityError)
		return
	}
	if !result.Success {
		c.Notify(orElse(result.Message, msgGenericError), notify.SeverityError)
		return
	}

	c.Notify(orElse(result.Message, msgAdded), notify.SeveritySuccess)
	c.RefreshCartCount(ctx)
	c.page.SetQuantityInput(productID, "1")
}

// UpdateQuantity sets a cart line to a new quantity. A quantity below 1
// is removal intent and is routed through the confirmation-gated
// removal flow. On success the page is reloaded; the server's rendered
// totals are the source of truth and are never recomputed here.
func (c *Controller) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		c.RemoveFromCart(ctx, productID)
		return
	}

	result, err := c.api.UpdateCart(ctx, productID, quantity)
	if err != nil {
		log.Printf("[Controller] update cart failed: %v", err)
		c.Notify(msgGenericError, notify.SeverityError)
		return
	}
	if !result.Success {
		c.Notify(orElse(result.Message, msgGenericError), notify.SeverityError)
		return
	}

	c.page.Reload()
}

// RemoveFromCart removes a cart line after the user confirms. Declining
// aborts silently. On success the line element is removed and the page
// reloaded; the reload makes the element removal redundant, but both
// behaviors are kept deliberately.
func (c *Controller) RemoveFromCart(ctx context.Context, productID string) {
	if !c.confirm.Confirm(promptRemoveItem) {
		return
	}

	result, err := c.api.RemoveFromCart(ctx, productID)
	if err != nil {
		log.Printf("[Controller] remove from cart failed: %v", err)
		c.Notify(msgGenericError, notify.SeverityError)
		return
	}
	if !result.Success {
		c.Notify(orElse(result.Message, msgGenericError), notify.SeverityError)
		return
	}

	c.page.RemoveCartLine(productID)
	c.Notify(orElse(result.Message, msgRemoved), notify.SeveritySuccess)
	c.RefreshCartCount(ctx)
	c.page.Reload()
}

// ClearCart empties the whole cart after confirmation.
func (c *Controller) ClearCart(ctx context.Context) {
	if !c.confirm.Confirm(promptClearCart) {
		return
	}

	result, err := c.api.ClearCart(ctx)
	if err != nil {
		log.Printf("[Controller] clear cart failed: %v", err)
		c.Notify(msgGenericError, notify.SeverityError)
		return
	}
	if !result.Success {
		c.Notify(orElse(result.Message, msgGenericError), notify.SeverityError)
		return
	}

	c.Notify(msgCartCleared, notify.SeveritySuccess)
	c.RefreshCartCount(ctx)
	c.page.Reload()
}

// PlaceOrder reads the address and phone fields, validates them in that
// order, and submits the order. On success the user is taken to the
// order listing after a short delay.
func (c *Controller) PlaceOrder(ctx context.Context) {
	address := strings.TrimSpace(c.page.Field(ui.FieldAddress))
	if address == "" {
		c.Notify(msgAddressRequired, notify.SeverityError)
		return
	}

	phone := c.page.Field(ui.FieldPhone)
	if !validate.Phone(phone) {
		c.Notify(msgInvalidPhone, notify.SeverityError)
		return
	}

	result, err := c.api.PlaceOrder(ctx, address, phone)
	if err != nil {
		log.Printf("[Controller] place order failed: %v", err)
		c.Notify(msgGenericError, notify.SeverityError)
		return
	}
	if !result.Success {
		c.Notify(orElse(result.Message, msgGenericError), notify.SeverityError)
		return
	}

	c.Notify(orElse(result.Message, msgOrderPlaced), notify.SeveritySuccess)
	c.after(orderRedirectDelay, func() { c.page.Navigate(OrdersPath) })
}

// resolveQuantity parses the per-product quantity input. An absent or
// unparseable field counts as 1; a parseable non-positive value is kept
// so the caller rejects it.
func (c *Controller) resolveQuantity(productID string) int {
	raw := strings.TrimSpace(c.page.QuantityInput(productID))
	if raw == "" {
		return 1
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return quantity
}

func orElse(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
