package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/grocery-storefront/internal/notify"
	"github.com/example/grocery-storefront/internal/shopapi"
	"github.com/example/grocery-storefront/internal/ui"
	"github.com/example/grocery-storefront/internal/ui/uitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records every call and serves canned results per endpoint.
type fakeAPI struct {
	Calls []apiCall

	CountValue int
	CountErr   error

	AddResult    *shopapi.ActionResult
	AddErr       error
	UpdateResult *shopapi.ActionResult
	UpdateErr    error
	RemoveResult *shopapi.ActionResult
	RemoveErr    error
	ClearResult  *shopapi.ActionResult
	ClearErr     error
	OrderResult  *shopapi.ActionResult
	OrderErr     error
}

type apiCall struct {
	Op        string
	ProductID string
	Quantity  int
	Address   string
	Phone     string
}

func (f *fakeAPI) CartCount(ctx context.Context) (int, error) {
	f.Calls = append(f.Calls, apiCall{Op: "count"})
	return f.CountValue, f.CountErr
}

func (f *fakeAPI) AddToCart(ctx context.Context, productID string, quantity int) (*shopapi.ActionResult, error) {
	f.Calls = append(f.Calls, apiCall{Op: "add", ProductID: productID, Quantity: quantity})
	return f.AddResult, f.AddErr
}

func (f *fakeAPI) UpdateCart(ctx context.Context, productID string, quantity int) (*shopapi.ActionResult, error) {
	f.Calls = append(f.Calls, apiCall{Op: "update", ProductID: productID, Quantity: quantity})
	return f.UpdateResult, f.UpdateErr
}

func (f *fakeAPI) RemoveFromCart(ctx context.Context, productID string) (*shopapi.ActionResult, error) {
	f.Calls = append(f.Calls, apiCall{Op: "remove", ProductID: productID})
	return f.RemoveResult, f.RemoveErr
}

func (f *fakeAPI) ClearCart(ctx context.Context) (*shopapi.ActionResult, error) {
	f.Calls = append(f.Calls, apiCall{Op: "clear"})
	return f.ClearResult, f.ClearErr
}

func (f *fakeAPI) PlaceOrder(ctx context.Context, address, phone string) (*shopapi.ActionResult, error) {
	f.Calls = append(f.Calls, apiCall{Op: "order", Address: address, Phone: phone})
	return f.OrderResult, f.OrderErr
}

// ops returns just the operation names, in call order.
func (f *fakeAPI) ops() []string {
	ops := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		ops[i] = c.Op
	}
	return ops
}

type fixture struct {
	api      *fakeAPI
	page     *uitest.FakePage
	confirm  *uitest.FakeConfirmer
	region   *uitest.FakeRegion
	ctrl     *Controller
	timers   []func()
}

func newFixture() *fixture {
	f := &fixture{
		api:     &fakeAPI{CountValue: 0},
		page:    uitest.NewFakePage(),
		confirm: &uitest.FakeConfirmer{Answer: true},
		region:  &uitest.FakeRegion{},
	}
	notifier := notify.NewNotifier(f.region)
	f.ctrl = New(f.api, f.page, f.confirm, notifier)
	f.ctrl.after = func(d time.Duration, fn func()) {
		f.timers = append(f.timers, fn)
	}
	return f
}

func (f *fixture) severities() []notify.Severity {
	sevs := make([]notify.Severity, len(f.region.Entries))
	for i, n := range f.region.Entries {
		sevs[i] = n.Severity
	}
	return sevs
}

// ============================================
// RefreshCartCount
// ============================================

func TestRefreshCartCount_WritesBadge(t *testing.T) {
	f := newFixture()
	f.api.CountValue = 4

	f.ctrl.RefreshCartCount(context.Background())

	assert.Equal(t, []int{4}, f.page.CartCounts)
}

func TestRefreshCartCount_FailureLeavesBadgeAndUserAlone(t *testing.T) {
	f := newFixture()
	f.api.CountErr = errors.New("connection refused")

	f.ctrl.RefreshCartCount(context.Background())

	assert.Empty(t, f.page.CartCounts)
	assert.Empty(t, f.region.Entries)
}

// ============================================
// AddToCart
// ============================================

func TestAddToCart_ReadsQuantityInput(t *testing.T) {
	f := newFixture()
	f.page.QuantityInputs["P1"] = "3"
	f.api.AddResult = &shopapi.ActionResult{Success: true}
	f.api.CountValue = 3

	f.ctrl.AddToCart(context.Background(), "P1")

	require.NotEmpty(t, f.api.Calls)
	assert.Equal(t, apiCall{Op: "add", ProductID: "P1", Quantity: 3}, f.api.Calls[0])
	// Success path: toast, badge re-fetched, input reset to 1.
	assert.Equal(t, []string{"add", "count"}, f.api.ops())
	assert.Equal(t, []int{3}, f.page.CartCounts)
	assert.Equal(t, "1", f.page.QuantityInputs["P1"])
	assert.Equal(t, []notify.Severity{notify.SeveritySuccess}, f.severities())
}

func TestAddToCart_MissingInputDefaultsToOne(t *testing.T) {
	f := newFixture()
	f.api.AddResult = &shopapi.ActionResult{Success: true}

	f.ctrl.AddToCart(context.Background(), "P1")

	assert.Equal(t, 1, f.api.Calls[0].Quantity)
}

func TestAddToCart_UnparseableInputDefaultsToOne(t *testing.T) {
	f := newFixture()
	f.page.QuantityInputs["P1"] = "lots"
	f.api.AddResult = &shopapi.ActionResult{Success: true}

	f.ctrl.AddToCart(context.Background(), "P1")

	assert.Equal(t, 1, f.api.Calls[0].Quantity)
}

func TestAddToCart_ZeroInInputRejectedLocally(t *testing.T) {
	f := newFixture()
	f.page.QuantityInputs["P1"] = "0"

	f.ctrl.AddToCart(context.Background(), "P1")

	assert.Empty(t, f.api.Calls)
	assert.Equal(t, []string{"Invalid quantity"}, f.region.Messages())
	assert.Equal(t, []notify.Severity{notify.SeverityError}, f.severities())
}

func TestAddToCartQuantity_NonPositiveNeverSends(t *testing.T) {
	for _, q := range []int{0, -1, -10} {
		f := newFixture()

		f.ctrl.AddToCartQuantity(context.Background(), "P1", q)

		assert.Empty(t, f.api.Calls, "quantity %d", q)
		assert.Equal(t, []notify.Severity{notify.SeverityError}, f.severities())
	}
}

func TestAddToCart_ServerMessagePreferred(t *testing.T) {
	f := newFixture()
	f.api.AddResult = &shopapi.ActionResult{Success: true, Message: "Added 2 Milk to cart"}

	f.ctrl.AddToCartQuantity(context.Background(), "P1", 2)

	assert.Contains(t, f.region.Messages(), "Added 2 Milk to cart")
}

func TestAddToCart_ServerRejection(t *testing.T) {
	f := newFixture()
	f.api.AddResult = &shopapi.ActionResult{Success: false, Message: "Product is out of stock"}

	f.ctrl.AddToCartQuantity(context.Background(), "P1", 1)

	assert.Equal(t, []string{"Product is out of stock"}, f.region.Messages())
	// No badge refresh, no input reset on failure.
	assert.Equal(t, []string{"add"}, f.api.ops())
	assert.Empty(t, f.page.CartCounts)
}

func TestAddToCart_TransportFailureShowsGenericError(t *testing.T) {
	f := newFixture()
	f.api.AddErr = errors.New("dial tcp: connection refused")

	f.ctrl.AddToCartQuantity(context.Background(), "P1", 1)

	assert.Equal(t, []string{"Something went wrong. Please try again."}, f.region.Messages())
	assert.Equal(t, []notify.Severity{notify.SeverityError}, f.severities())
}

// ============================================
// UpdateQuantity
// ============================================

func TestUpdateQuantity_SuccessReloadsPage(t *testing.T) {
	f := newFixture()
	f.api.UpdateResult = &shopapi.ActionResult{Success: true}

	f.ctrl.UpdateQuantity(context.Background(), "P1", 5)

	assert.Equal(t, apiCall{Op: "update", ProductID: "P1", Quantity: 5}, f.api.Calls[0])
	assert.Equal(t, 1, f.page.Reloads)
	// Totals come from the reloaded page, not a toast.
	assert.Empty(t, f.region.Entries)
}

func TestUpdateQuantity_ZeroDelegatesToRemoval(t *testing.T) {
	f := newFixture()
	f.api.RemoveResult = &shopapi.ActionResult{Success: true}

	f.ctrl.UpdateQuantity(context.Background(), "P1", 0)

	// No update request; removal flow (with its confirmation) instead.
	require.NotEmpty(t, f.api.Calls)
	assert.Equal(t, "remove", f.api.Calls[0].Op)
	assert.Equal(t, []string{"Remove this item from your cart?"}, f.confirm.Prompts)
}

func TestUpdateQuantity_FailureLeavesPage(t *testing.T) {
	f := newFixture()
	f.api.UpdateResult = &shopapi.ActionResult{Success: false, Message: "Only 2 items available"}

	f.ctrl.UpdateQuantity(context.Background(), "P1", 9)

	assert.Zero(t, f.page.Reloads)
	assert.Equal(t, []string{"Only 2 items available"}, f.region.Messages())
}

func TestUpdateQuantity_TransportFailure(t *testing.T) {
	f := newFixture()
	f.api.UpdateErr = errors.New("timeout")

	f.ctrl.UpdateQuantity(context.Background(), "P1", 2)

	assert.Zero(t, f.page.Reloads)
	assert.Equal(t, []notify.Severity{notify.SeverityError}, f.severities())
}

// ============================================
// RemoveFromCart
// ============================================

func TestRemoveFromCart_DeclinedSendsNothing(t *testing.T) {
	f := newFixture()
	f.confirm.Answer = false

	f.ctrl.RemoveFromCart(context.Background(), "P1")

	assert.Empty(t, f.api.Calls)
	assert.Empty(t, f.region.Entries)
	assert.Zero(t, f.page.Reloads)
}

func TestRemoveFromCart_Success(t *testing.T) {
	f := newFixture()
	f.page.CartLines["P1"] = true
	f.api.RemoveResult = &shopapi.ActionResult{Success: true, Message: "Item removed from cart"}
	f.api.CountValue = 2

	f.ctrl.RemoveFromCart(context.Background(), "P1")

	assert.Equal(t, []string{"remove", "count"}, f.api.ops())
	assert.Equal(t, []string{"P1"}, f.page.RemovedLines)
	assert.Equal(t, []int{2}, f.page.CartCounts)
	// Line removal and full reload are both kept.
	assert.Equal(t, 1, f.page.Reloads)
	assert.Equal(t, []notify.Severity{notify.SeveritySuccess}, f.severities())
}

func TestRemoveFromCart_ServerRejectionLeavesDOM(t *testing.T) {
	f := newFixture()
	f.page.CartLines["P1"] = true
	f.api.RemoveResult = &shopapi.ActionResult{Success: false, Message: "Item not found in cart"}

	f.ctrl.RemoveFromCart(context.Background(), "P1")

	assert.Empty(t, f.page.RemovedLines)
	assert.True(t, f.page.CartLines["P1"])
	assert.Zero(t, f.page.Reloads)
	assert.Equal(t, []string{"Item not found in cart"}, f.region.Messages())
}

// ============================================
// ClearCart
// ============================================

func TestClearCart_Success(t *testing.T) {
	f := newFixture()
	f.api.ClearResult = &shopapi.ActionResult{Success: true}

	f.ctrl.ClearCart(context.Background())

	assert.Equal(t, []string{"clear", "count"}, f.api.ops())
	assert.Equal(t, 1, f.page.Reloads)
}

func TestClearCart_Declined(t *testing.T) {
	f := newFixture()
	f.confirm.Answer = false

	f.ctrl.ClearCart(context.Background())

	assert.Empty(t, f.api.Calls)
}

// ============================================
// PlaceOrder
// ============================================

func TestPlaceOrder_EmptyAddressRejectedBeforeSend(t *testing.T) {
	f := newFixture()
	f.page.Fields[ui.FieldAddress] = "   "
	f.page.Fields[ui.FieldPhone] = "5551234567"

	f.ctrl.PlaceOrder(context.Background())

	assert.Empty(t, f.api.Calls)
	assert.Equal(t, []string{"Please enter delivery address"}, f.region.Messages())
}

func TestPlaceOrder_InvalidPhoneRejectedBeforeSend(t *testing.T) {
	f := newFixture()
	f.page.Fields[ui.FieldAddress] = "42 Main St"
	f.page.Fields[ui.FieldPhone] = "555-123-456"

	f.ctrl.PlaceOrder(context.Background())

	assert.Empty(t, f.api.Calls)
	assert.Equal(t, []string{"Please enter a valid phone number"}, f.region.Messages())
}

func TestPlaceOrder_AddressCheckedBeforePhone(t *testing.T) {
	f := newFixture()
	// Both invalid: only the address error shows.
	f.ctrl.PlaceOrder(context.Background())

	assert.Equal(t, []string{"Please enter delivery address"}, f.region.Messages())
}

func TestPlaceOrder_SuccessNavigatesAfterDelay(t *testing.T) {
	f := newFixture()
	f.page.Fields[ui.FieldAddress] = "  42 Main St  "
	f.page.Fields[ui.FieldPhone] = "(555) 123-4567"
	f.api.OrderResult = &shopapi.ActionResult{Success: true}

	f.ctrl.PlaceOrder(context.Background())

	require.Len(t, f.api.Calls, 1)
	// Address is trimmed before sending; phone goes through as typed.
	assert.Equal(t, "42 Main St", f.api.Calls[0].Address)
	assert.Equal(t, "(555) 123-4567", f.api.Calls[0].Phone)
	assert.Equal(t, []notify.Severity{notify.SeveritySuccess}, f.severities())

	// Navigation happens only once the delay timer fires.
	assert.Empty(t, f.page.Navigations)
	require.Len(t, f.timers, 1)
	f.timers[0]()
	assert.Equal(t, []string{OrdersPath}, f.page.Navigations)
}

func TestPlaceOrder_ServerMessageShownOnFailure(t *testing.T) {
	f := newFixture()
	f.page.Fields[ui.FieldAddress] = "42 Main St"
	f.page.Fields[ui.FieldPhone] = "5551234567"
	f.api.OrderResult = &shopapi.ActionResult{Success: false, Message: "Insufficient stock for Milk"}

	f.ctrl.PlaceOrder(context.Background())

	assert.Equal(t, []string{"Insufficient stock for Milk"}, f.region.Messages())
	assert.Empty(t, f.timers)
	assert.Empty(t, f.page.Navigations)
}

func TestPlaceOrder_TransportFailureShowsGenericError(t *testing.T) {
	f := newFixture()
	f.page.Fields[ui.FieldAddress] = "42 Main St"
	f.page.Fields[ui.FieldPhone] = "5551234567"
	f.api.OrderErr = errors.New("eof")

	f.ctrl.PlaceOrder(context.Background())

	assert.Equal(t, []string{"Something went wrong. Please try again."}, f.region.Messages())
}
