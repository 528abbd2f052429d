package checkout

import (
	"context"
	"encoding/json"
	"time"
)

const EventOrderPlaced = "checkout.order.placed"

// OrderPlacedEvent is published after the order endpoint accepted an order.
type OrderPlacedEvent struct {
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	OrderID    string          `json:"order_id"`
	ModalID    string          `json:"modal_id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	Items      json.RawMessage `json:"items"`
}

func newOrderPlacedEvent(modalID, orderID string, payload OrderPayload) OrderPlacedEvent {
	return OrderPlacedEvent{
		EventType:  EventOrderPlaced,
		OccurredAt: time.Now().UTC(),
		OrderID:    orderID,
		ModalID:    modalID,
		Name:       payload.Name,
		Phone:      payload.Phone,
		Address:    payload.Address,
		Items:      payload.Items,
	}
}

// publishOrderPlaced is best effort: a failure is logged and never reaches
// the customer.
func (h *Handler) publishOrderPlaced(ctx context.Context, modalID, orderID string, payload OrderPayload) {
	if h.publisher == nil {
		return
	}

	evt := newOrderPlacedEvent(modalID, orderID, payload)
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot encode order placed event", "order_id", orderID, "error", err)
		return
	}

	if err := h.publisher.Publish(ctx, h.settings.EventsTopic, data); err != nil {
		h.logger.Error("cannot publish order placed event", "order_id", orderID, "topic", h.settings.EventsTopic, "error", err)
		return
	}

	h.logger.Debug("order placed event published", "order_id", orderID, "topic", h.settings.EventsTopic)
}
