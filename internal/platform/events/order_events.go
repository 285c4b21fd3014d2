package events

import (
	"context"
	"time"

	"shopgraph/internal/domain/entity"
)

// OrderPlaced is the payload published after an order has been created and the cart cleared.
type OrderPlaced struct {
	OrderID    string            `json:"orderId"`
	UserID     string            `json:"userId"`
	TotalPrice float64           `json:"totalPrice"`
	Items      []OrderPlacedItem `json:"items"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// OrderPlacedItem is one line of an OrderPlaced event.
type OrderPlacedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderEvents publishes order lifecycle events on a single topic.
type OrderEvents struct {
	pub   Publisher
	topic string
}

// NewOrderEvents creates an OrderEvents publishing to topic.
func NewOrderEvents(pub Publisher, topic string) *OrderEvents {
	return &OrderEvents{pub: pub, topic: topic}
}

// PublishOrderPlaced publishes an OrderPlaced event keyed by the user ID,
// so that one user's orders stay on one partition.
func (e *OrderEvents) PublishOrderPlaced(ctx context.Context, order *entity.Order) error {
	return e.pub.PublishEvent(ctx, e.topic, order.UserID, NewOrderPlaced(order))
}

// NewOrderPlaced builds the event payload for order.
func NewOrderPlaced(order *entity.Order) OrderPlaced {
	items := make([]OrderPlacedItem, len(order.Items))
	for i, line := range order.Items {
		items[i] = OrderPlacedItem{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return OrderPlaced{
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}
}
