// Package ui declares the ports through which the cart/order controller
// touches the rendered page. The controller never performs global
// lookups; everything it reads or mutates goes through these interfaces,
// which keeps the flows testable without a rendering environment.
package ui

// Page is the controller's view of the current storefront page.
type Page interface {
	// Field returns the value of a named form field (delivery address,
	// phone number). Missing fields read as ""; the fields themselves
	// are filled by the page, never by the controller.
	Field(name string) string

	// QuantityInput returns the raw value of the per-product quantity
	// input, or "" if the page has no input for that product.
	QuantityInput(productID string) string
	// SetQuantityInput resets the per-product quantity input.
	SetQuantityInput(productID, value string)

	// SetCartCount writes the cart badge.
	SetCartCount(count int)

	// RemoveCartLine deletes the cart line element for a product.
	// Removing an absent line is a no-op.
	RemoveCartLine(productID string)

	// Reload re-renders the whole page from the server.
	Reload()
	// Navigate moves the browser to another location.
	Navigate(url string)
}

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Field names the controller reads at place-order time.
const (
	FieldAddress = "delivery_address"
	FieldPhone   = "phone_number"
)
