package booking

import (
	"context"
	"slices"
	"strings"

	"github.com/appetiteclub/apt"
)

// SlotRegistry owns the ordered time-slot labels offered per calendar date.
//
// Mutations are read-modify-write over one document with no transactional
// guard: two sessions editing the same date can race and the last writer
// wins, losing the other's change. Accepted for a single-administrator
// deployment; see the registry tests, which pin this behavior down.
type SlotRegistry struct {
	repo   SlotRepo
	logger apt.Logger
}

func NewSlotRegistry(repo SlotRepo, logger apt.Logger) *SlotRegistry {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &SlotRegistry{repo: repo, logger: logger}
}

// Slots returns the stored labels for date in order. A date with no slot
// document reads as an empty list, not an error.
func (r *SlotRegistry) Slots(ctx context.Context, date string) ([]string, error) {
	slots, err := r.repo.GetSlots(ctx, date)
	if err != nil {
		return nil, &PersistenceError{Op: "load slots", Err: err}
	}
	return slots, nil
}

// AddSlot appends a label to the date's sequence and persists the full
// updated sequence. Empty or duplicate labels are rejected.
func (r *SlotRegistry) AddSlot(ctx context.Context, date, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptySlotLabel
	}

	slots, err := r.repo.GetSlots(ctx, date)
	if err != nil {
		return &PersistenceError{Op: "load slots", Err: err}
	}
	if slices.Contains(slots, label) {
		return ErrDuplicateSlot
	}

	slots = append(slots, label)
	if err := r.repo.PutSlots(ctx, date, slots); err != nil {
		return &PersistenceError{Op: "store slots", Err: err}
	}

	r.logger.Info("slot added", "date", date, "slot", label)
	return nil
}

// RemoveSlot removes the label from the date's sequence. Removing a label
// that is not present is a no-op, so removal stays idempotent.
func (r *SlotRegistry) RemoveSlot(ctx context.Context, date, label string) error {
	slots, err := r.repo.GetSlots(ctx, date)
	if err != nil {
		return &PersistenceError{Op: "load slots", Err: err}
	}

	i := slices.Index(slots, label)
	if i < 0 {
		return nil
	}

	slots = slices.Delete(slots, i, i+1)
	if err := r.repo.PutSlots(ctx, date, slots); err != nil {
		return &PersistenceError{Op: "store slots", Err: err}
	}

	r.logger.Info("slot removed", "date", date, "slot", label)
	return nil
}

// Offers reports whether label is currently offered on date.
func (r *SlotRegistry) Offers(ctx context.Context, date, label string) (bool, error) {
	slots, err := r.Slots(ctx, date)
	if err != nil {
		return false, err
	}
	return slices.Contains(slots, label), nil
}
