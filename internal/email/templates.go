package email

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/example/grocery-storefront/internal/validate"
)

// ConfirmationItem is one ordered line as shown in the email.
type ConfirmationItem struct {
	Name     string
	Quantity int
	Price    float64
}

// ConfirmationOrder carries everything the confirmation email renders.
type ConfirmationOrder struct {
	OrderID           string
	Items             []ConfirmationItem
	TotalAmount       float64
	DeliveryAddress   string
	EstimatedDelivery time.Time
}

// BuildOrderConfirmationBody builds the HTML body for the order
// confirmation email.
func BuildOrderConfirmationBody(order ConfirmationOrder) string {
	var itemsHTML strings.Builder
	for _, item := range order.Items {
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
			</tr>`,
			html.EscapeString(item.Name),
			item.Quantity,
			validate.FormatPrice(item.Price),
			validate.FormatPrice(item.Price*float64(item.Quantity)),
		))
	}

	eta := "TBD"
	if !order.EstimatedDelivery.IsZero() {
		eta = order.EstimatedDelivery.Format("2 January, 2006 at 3:04 PM")
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #2e7d32 0%%, #66bb6a 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you for your order!</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">We have received your order and are getting it ready.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order ID</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<h2 style="font-size: 18px; border-bottom: 2px solid #2e7d32; padding-bottom: 10px;">Your items</h2>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left;">Item</th>
					<th style="padding: 12px; text-align: center;">Qty</th>
					<th style="padding: 12px; text-align: right;">Price</th>
					<th style="padding: 12px; text-align: right;">Subtotal</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 12px; text-align: right; font-weight: bold;">Total (incl. delivery &amp; tax)</td>
					<td style="padding: 12px; text-align: right; font-weight: bold;">%s</td>
				</tr>
			</tfoot>
		</table>

		<h2 style="font-size: 18px; border-bottom: 2px solid #2e7d32; padding-bottom: 10px;">Delivery</h2>
		<p style="margin: 10px 0 0 0;">%s</p>
		<p style="margin: 5px 0 0 0; color: #666;">Estimated delivery: %s</p>

		<p style="margin-top: 30px; color: #666;">We'll send you updates about your order status.</p>
	</div>
</body>
</html>`,
		html.EscapeString(order.OrderID),
		itemsHTML.String(),
		validate.FormatPrice(order.TotalAmount),
		html.EscapeString(order.DeliveryAddress),
		eta,
	)
}
