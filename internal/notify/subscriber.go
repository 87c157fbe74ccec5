package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/platterclub/platter/pkg"
)

// OrderCreatedSubscriber listens for persisted orders and forwards the
// confirmation email. Its failure domain is its own: a malformed event or
// a refused send is logged and dropped, never retried, and never visible
// to the submission path.
type OrderCreatedSubscriber struct {
	subscriber events.Subscriber
	mailer     Mailer
	logger     apt.Logger
}

func NewOrderCreatedSubscriber(sub events.Subscriber, mailer Mailer, logger apt.Logger) *OrderCreatedSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &OrderCreatedSubscriber{
		subscriber: sub,
		mailer:     mailer,
		logger:     logger,
	}
}

func (s *OrderCreatedSubscriber) Start(ctx context.Context) error {
	s.log().Info("starting order notification subscriber", "topic", pkg.OrderCreatedTopic)
	if s.subscriber == nil {
		return fmt.Errorf("order notification subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, pkg.OrderCreatedTopic, s.handleEvent)
}

func (s *OrderCreatedSubscriber) Stop(ctx context.Context) error {
	return nil
}

func (s *OrderCreatedSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var metadata pkg.OrderEventMetadata
	if err := json.Unmarshal(msg, &metadata); err != nil {
		s.log().Info("invalid order event", "error", err)
		return nil
	}

	if metadata.EventType != pkg.EventOrderCreated {
		s.log().Debug("unknown order event type", "event_type", metadata.EventType)
		return nil
	}

	var evt pkg.OrderCreatedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.log().Info("invalid order created event", "error", err)
		return nil
	}

	params := TemplateParams{
		UserEmail:     evt.UserEmail,
		OrderID:       evt.OrderNumber,
		OrderTotal:    evt.OrderTotal,
		PickupDate:    evt.PickupDate,
		TimeSlot:      evt.TimeSlot,
		OrderType:     evt.OrderType,
		PaymentMethod: evt.PaymentMethod,
		Address:       evt.Address,
		OrderItems:    evt.OrderItems,
	}

	if err := s.mailer.SendOrderConfirmation(ctx, params); err != nil {
		s.log().Info("cannot send order confirmation", "error", err, "order_id", evt.OrderNumber)
		return nil
	}

	s.log().Info("order confirmation sent", "order_id", evt.OrderNumber, "user_email", evt.UserEmail)
	return nil
}

func (s *OrderCreatedSubscriber) log() apt.Logger {
	return s.logger.With("component", "OrderCreatedSubscriber")
}
