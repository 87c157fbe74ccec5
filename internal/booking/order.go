package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/platterclub/platter/internal/cart"
)

const (
	OrderTypePickup   = "pickup"
	OrderTypeDelivery = "delivery"

	DefaultPaymentMethod = "Cash"

	// DateLayout is the ISO date format orders and slot documents key on.
	DateLayout = "2006-01-02"
)

// Order binds a cart snapshot to a date and, in slot mode, a time slot.
// Immutable once persisted; only the aggregator reads it back.
type Order struct {
	ID            uuid.UUID    `json:"id" bson:"_id"`
	Number        string       `json:"order_id" bson:"orderId"`
	UserID        string       `json:"user_id" bson:"userId"`
	UserEmail     string       `json:"user_email" bson:"userEmail"`
	Cart          []cart.Entry `json:"cart" bson:"cart"`
	Total         float64      `json:"total" bson:"total"`
	Date          string       `json:"date" bson:"date"`
	TimeSlot      string       `json:"time_slot,omitempty" bson:"timeSlot,omitempty"`
	OrderType     string       `json:"order_type" bson:"orderType"`
	Address       string       `json:"address,omitempty" bson:"address,omitempty"`
	PaymentMethod string       `json:"payment_method" bson:"paymentMethod"`
	CreatedAt     time.Time    `json:"created_at" bson:"createdAt"`
}

// NewOrder creates an Order with a store identity and a human-readable
// order number.
func NewOrder() *Order {
	return &Order{
		ID:     apt.GenerateNewID(),
		Number: NewOrderNumber(),
	}
}

// NewOrderNumber generates a human-readable order identifier: ORD- plus the
// first eight hex characters of a v4 UUID, uppercased. Collisions are not
// checked against existing orders; at this ID space they are acceptably rare.
func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// GetID returns the persisted-record identity, which is distinct from the
// customer-facing order number.
func (o *Order) GetID() uuid.UUID {
	return o.ID
}

// ResourceType returns the resource type for URL generation.
func (o *Order) ResourceType() string {
	return "order"
}

// EnsureID generates identifiers that are still missing.
func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
	if o.Number == "" {
		o.Number = NewOrderNumber()
	}
}

// BeforeCreate stamps the creation time.
func (o *Order) BeforeCreate() {
	o.EnsureID()
	o.CreatedAt = time.Now()
}

// ItemCount sums the entry quantities across the cart snapshot.
func (o *Order) ItemCount() int {
	var n int
	for _, e := range o.Cart {
		n += e.Quantity
	}
	return n
}

// ItemsSummary renders the cart as "Name xQty, ..." for notifications.
func (o *Order) ItemsSummary() string {
	parts := make([]string, len(o.Cart))
	for i, e := range o.Cart {
		parts[i] = fmt.Sprintf("%s x%d", e.Name, e.Quantity)
	}
	return strings.Join(parts, ", ")
}

type orderDoc struct {
	ID            string       `bson:"_id"`
	Number        string       `bson:"orderId"`
	UserID        string       `bson:"userId"`
	UserEmail     string       `bson:"userEmail"`
	Cart          []cart.Entry `bson:"cart"`
	Total         float64      `bson:"total"`
	Date          string       `bson:"date"`
	TimeSlot      string       `bson:"timeSlot,omitempty"`
	OrderType     string       `bson:"orderType"`
	Address       string       `bson:"address,omitempty"`
	PaymentMethod string       `bson:"paymentMethod"`
	CreatedAt     time.Time    `bson:"createdAt"`
}

// MarshalBSON custom BSON marshaling for UUID handling.
func (o *Order) MarshalBSON() ([]byte, error) {
	return bson.Marshal(orderDoc{
		ID:            o.ID.String(),
		Number:        o.Number,
		UserID:        o.UserID,
		UserEmail:     o.UserEmail,
		Cart:          o.Cart,
		Total:         o.Total,
		Date:          o.Date,
		TimeSlot:      o.TimeSlot,
		OrderType:     o.OrderType,
		Address:       o.Address,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	})
}

// UnmarshalBSON custom BSON unmarshaling for UUID handling.
func (o *Order) UnmarshalBSON(data []byte) error {
	var doc orderDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return fmt.Errorf("invalid UUID format for _id: %w", err)
	}

	o.ID = id
	o.Number = doc.Number
	o.UserID = doc.UserID
	o.UserEmail = doc.UserEmail
	o.Cart = doc.Cart
	o.Total = doc.Total
	o.Date = doc.Date
	o.TimeSlot = doc.TimeSlot
	o.OrderType = doc.OrderType
	o.Address = doc.Address
	o.PaymentMethod = doc.PaymentMethod
	o.CreatedAt = doc.CreatedAt
	return nil
}
