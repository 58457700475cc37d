package ports

import "context"

// OrderEvent is the message published on order lifecycle transitions.
type OrderEvent struct {
	OrderRef      string `json:"order_ref"`
	RestaurantRef string `json:"restaurant_ref"`
	CustomerKey   string `json:"customer_key"`
	Status        int    `json:"status"`
	Total         float64 `json:"total"`
	Timestamp     int64  `json:"timestamp"`
}

// OrderPublisher emits order lifecycle events to the message broker. Publish
// failures never fail the originating operation; callers log and move on.
type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}
