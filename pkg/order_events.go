package pkg

import "time"

const (
	// OrderCreatedTopic delivers best-effort notifications about newly
	// persisted orders. Nothing on the submission path waits on it.
	OrderCreatedTopic = "orders.created"

	// EventOrderCreated identifies an order creation payload.
	EventOrderCreated = "order.created"
)

// OrderEventMetadata carries just enough to route an order event.
type OrderEventMetadata struct {
	EventType string `json:"event_type"`
}

// OrderCreatedEvent captures the template parameter set handed to the
// transactional-email sender after an order is persisted.
type OrderCreatedEvent struct {
	EventType     string    `json:"event_type"`
	OrderNumber   string    `json:"order_id"`
	UserEmail     string    `json:"user_email"`
	OrderTotal    string    `json:"order_total"`
	PickupDate    string    `json:"pickup_date"`
	TimeSlot      string    `json:"time_slot"`
	OrderType     string    `json:"order_type"`
	PaymentMethod string    `json:"payment_method"`
	Address       string    `json:"address"`
	OrderItems    string    `json:"order_items"`
	OccurredAt    time.Time `json:"occurred_at"`
}
