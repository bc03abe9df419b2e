package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/example/grocery-storefront/internal/email"
	"github.com/example/grocery-storefront/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	Sent    []email.ConfirmationOrder
	SentTo  []string
	SendErr error
}

func (s *fakeSender) SendOrderConfirmation(to string, order email.ConfirmationOrder) error {
	if s.SendErr != nil {
		return s.SendErr
	}
	s.SentTo = append(s.SentTo, to)
	s.Sent = append(s.Sent, order)
	return nil
}

func marshalEnvelope(t *testing.T, eventType string, payload any) []byte {
	t.Helper()
	envelope, err := events.Wrap(eventType, payload)
	require.NoError(t, err)
	data, err := json.Marshal(envelope)
	require.NoError(t, err)
	return data
}

func TestHandleEvent_OrderPlaced(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender)

	eta := time.Now().Add(3 * time.Hour).Truncate(time.Second)
	value := marshalEnvelope(t, events.TypeOrderPlaced, events.OrderPlaced{
		OrderID:         "order-1",
		UserID:          "u1",
		Email:           "asha@example.com",
		Items:           []events.OrderPlacedItem{{ProductID: "p1", Name: "Milk", Quantity: 2, Price: 55}},
		TotalAmount:     120.5,
		DeliveryAddress: "42 Main St",
		EstimatedDelivery: eta,
	})

	require.NoError(t, handler.HandleEvent(context.Background(), []byte("order-1"), value))

	require.Len(t, sender.Sent, 1)
	assert.Equal(t, []string{"asha@example.com"}, sender.SentTo)
	assert.Equal(t, "order-1", sender.Sent[0].OrderID)
	assert.Equal(t, "Milk", sender.Sent[0].Items[0].Name)
	assert.InDelta(t, 120.5, sender.Sent[0].TotalAmount, 1e-9)
}

func TestHandleEvent_IgnoresCartActivity(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender)

	value := marshalEnvelope(t, events.TypeItemAdded, events.CartActivity{SessionID: "s", ProductID: "p"})

	require.NoError(t, handler.HandleEvent(context.Background(), []byte("s"), value))
	assert.Empty(t, sender.Sent)
}

func TestHandleEvent_MissingEmailIsSkipped(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender)

	value := marshalEnvelope(t, events.TypeOrderPlaced, events.OrderPlaced{OrderID: "order-2"})

	require.NoError(t, handler.HandleEvent(context.Background(), []byte("order-2"), value))
	assert.Empty(t, sender.Sent)
}

func TestHandleEvent_BadPayload(t *testing.T) {
	handler := NewHandler(&fakeSender{})

	err := handler.HandleEvent(context.Background(), nil, []byte("not json"))
	assert.Error(t, err)
}

func TestHandleEvent_FallsBackToProductID(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender)

	value := marshalEnvelope(t, events.TypeOrderPlaced, events.OrderPlaced{
		OrderID: "order-3",
		Email:   "a@b.c",
		Items:   []events.OrderPlacedItem{{ProductID: "p-unknown", Quantity: 1, Price: 10}},
	})

	require.NoError(t, handler.HandleEvent(context.Background(), nil, value))
	require.Len(t, sender.Sent, 1)
	assert.Equal(t, "p-unknown", sender.Sent[0].Items[0].Name)
}
