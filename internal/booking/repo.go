package booking

import "context"

type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	GetByNumber(ctx context.Context, number string) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	ListByDate(ctx context.Context, date string) ([]*Order, error)
}

// SlotRepo persists the per-date slot sequence as a single document. The
// store offers no atomic append, so every mutation writes the whole list.
type SlotRepo interface {
	GetSlots(ctx context.Context, date string) ([]string, error)
	PutSlots(ctx context.Context, date string, slots []string) error
}
