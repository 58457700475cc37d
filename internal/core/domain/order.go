package domain

// OrderStatus is the lifecycle state of a customer order. Codes 2 and 3 are
// reserved for future intermediate states and accepted by no transition yet.
type OrderStatus int

const (
	OrderPending   OrderStatus = 0
	OrderCompleted OrderStatus = 1
	OrderCancelled OrderStatus = 4
)

// validOrderTransitions defines the allowed state machine transitions.
// Status only ever moves forward; terminal states have no outgoing edges.
var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderCompleted, OrderCancelled},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (s OrderStatus) Terminal() bool {
	return len(validOrderTransitions[s]) == 0
}

// CustomerOrder is one order at one restaurant. UpdatedAt is zero at
// creation and strictly increases on every subsequent transition.
type CustomerOrder struct {
	OrderID       string      `json:"order_id" bson:"order_id"`
	RestaurantRef string      `json:"restaurant_ref" bson:"restaurant_ref"`
	CustomerKey   string      `json:"customer_key" bson:"customer_key"`
	Items         []string    `json:"items" bson:"items"`
	Total         float64     `json:"total" bson:"total"`
	Status        OrderStatus `json:"status" bson:"status"`
	CreatedAt     int64       `json:"created_at" bson:"created_at"`
	UpdatedAt     int64       `json:"updated_at" bson:"updated_at"`
}
