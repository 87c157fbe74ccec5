package booking

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/platterclub/platter/internal/auth"
	"github.com/platterclub/platter/internal/cart"
	"github.com/platterclub/platter/pkg"
)

const (
	// ModeSlots requires every order to land in a registered time slot.
	ModeSlots = "slots"
	// ModeSimple binds an order to a date only.
	ModeSimple = "simple"
)

// CapacityPolicy decides what happens at the full threshold. Advisory keeps
// the original behavior: full is a warning and bookings keep landing.
type CapacityPolicy struct {
	Thresholds Thresholds
	Enforce    bool
}

// SubmitRequest carries the booking preferences for one submission attempt.
type SubmitRequest struct {
	Date          string `json:"date"`
	TimeSlot      string `json:"time_slot"`
	OrderType     string `json:"order_type"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

// Scheduler validates a submission, persists the resulting order, and emits
// the best-effort creation event. Each attempt is Draft -> Validating ->
// Persisted or Rejected; nothing is written for a rejected attempt.
type Scheduler struct {
	orders    OrderRepo
	slots     *SlotRegistry
	publisher events.Publisher
	logger    apt.Logger
	mode      string
	capacity  CapacityPolicy
}

type SchedulerDeps struct {
	OrderRepo OrderRepo
	Slots     *SlotRegistry
	Publisher events.Publisher
	Mode      string
	Capacity  CapacityPolicy
}

func NewScheduler(deps SchedulerDeps, logger apt.Logger) *Scheduler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	mode := deps.Mode
	if mode == "" {
		mode = ModeSlots
	}
	capacity := deps.Capacity
	if capacity.Thresholds.MaxOrders == 0 && capacity.Thresholds.MaxItems == 0 {
		capacity.Thresholds = DefaultThresholds()
	}
	return &Scheduler{
		orders:    deps.OrderRepo,
		slots:     deps.Slots,
		publisher: deps.Publisher,
		logger:    logger,
		mode:      mode,
		capacity:  capacity,
	}
}

// Submit runs one submission attempt against the caller's cart. On success
// the cart is cleared and the persisted order returned; on any failure the
// cart is left untouched so the identical submission can be retried.
func (s *Scheduler) Submit(ctx context.Context, session *auth.Session, c *cart.Cart, req SubmitRequest) (*Order, error) {
	if c == nil || c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		return nil, ErrMissingDate
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	slot := strings.TrimSpace(req.TimeSlot)
	if s.mode == ModeSlots {
		if slot == "" {
			return nil, ErrMissingSlot
		}
		offered, err := s.slots.Offers(ctx, date, slot)
		if err != nil {
			return nil, err
		}
		if !offered {
			return nil, ErrSlotNotOffered
		}
	}

	orderType := strings.TrimSpace(req.OrderType)
	if orderType == "" {
		orderType = OrderTypePickup
	}
	if orderType != OrderTypePickup && orderType != OrderTypeDelivery {
		return nil, ErrInvalidType
	}

	address := strings.TrimSpace(req.Address)
	if orderType == OrderTypeDelivery && address == "" {
		return nil, ErrMissingAddress
	}
	if orderType == OrderTypePickup {
		address = ""
	}

	if s.capacity.Enforce && slot != "" {
		if err := s.ensureSlotHasRoom(ctx, date, slot); err != nil {
			return nil, err
		}
	}

	payment := strings.TrimSpace(req.PaymentMethod)
	if payment == "" {
		payment = DefaultPaymentMethod
	}

	order := NewOrder()
	order.UserID = session.UserID
	order.UserEmail = session.Email
	order.Cart = c.Entries()
	order.Total = c.Total()
	order.Date = date
	order.TimeSlot = slot
	order.OrderType = orderType
	order.Address = address
	order.PaymentMethod = payment
	order.BeforeCreate()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, &PersistenceError{Op: "store order", Err: err}
	}

	c.Clear()
	s.publishOrderCreated(ctx, order)

	s.logger.Info("order persisted",
		"order_id", order.Number,
		"date", order.Date,
		"time_slot", order.TimeSlot,
		"items", order.ItemCount(),
	)
	return order, nil
}

// ensureSlotHasRoom consults the aggregator under strict capacity policy.
func (s *Scheduler) ensureSlotHasRoom(ctx context.Context, date, slot string) error {
	existing, err := s.orders.ListByDate(ctx, date)
	if err != nil {
		return &PersistenceError{Op: "list orders", Err: err}
	}
	stats := StatsForDate(existing, date)
	if IsFull(stats, slot, s.capacity.Thresholds) {
		return ErrSlotFull
	}
	return nil
}

// publishOrderCreated is fire-and-forget: the notification channel has its
// own failure domain and never rolls back a persisted order.
func (s *Scheduler) publishOrderCreated(ctx context.Context, order *Order) {
	if s.publisher == nil {
		return
	}

	address := order.Address
	if order.OrderType != OrderTypeDelivery {
		address = "N/A"
	}

	event := pkg.OrderCreatedEvent{
		EventType:     pkg.EventOrderCreated,
		OrderNumber:   order.Number,
		UserEmail:     order.UserEmail,
		OrderTotal:    formatAmount(order.Total),
		PickupDate:    order.Date,
		TimeSlot:      order.TimeSlot,
		OrderType:     order.OrderType,
		PaymentMethod: order.PaymentMethod,
		Address:       address,
		OrderItems:    order.ItemsSummary(),
		OccurredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("cannot marshal order created event", "error", err, "order_id", order.Number)
		return
	}
	if err := s.publisher.Publish(ctx, pkg.OrderCreatedTopic, payload); err != nil {
		s.logger.Error("cannot publish order created event", "error", err, "order_id", order.Number)
		return
	}
	s.logger.Info("published order created event", "order_id", order.Number)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
