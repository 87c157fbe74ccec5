package booking

import (
	"errors"
	"fmt"
)

// Validation failures. All of these are detected before any write is
// attempted, so a rejected submission never leaves a partial record behind.
var (
	ErrEmptySlotLabel = errors.New("slot label cannot be empty")
	ErrDuplicateSlot  = errors.New("slot already exists for this date")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingDate    = errors.New("date is required")
	ErrInvalidDate    = errors.New("date must be formatted yyyy-mm-dd")
	ErrMissingSlot    = errors.New("time slot is required")
	ErrSlotNotOffered = errors.New("time slot is not offered on this date")
	ErrMissingAddress = errors.New("delivery address is required")
	ErrInvalidType    = errors.New("order type must be pickup or delivery")
	ErrSlotFull       = errors.New("time slot is at capacity")
)

// PersistenceError surfaces an I/O failure against the store verbatim. The
// scheduler performs no retry and keeps the caller's cart intact so the
// identical submission can be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is one of the pre-write validation
// failures, as opposed to an I/O problem.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrEmptySlotLabel, ErrDuplicateSlot, ErrEmptyCart, ErrMissingDate,
		ErrInvalidDate, ErrMissingSlot, ErrSlotNotOffered, ErrMissingAddress,
		ErrInvalidType, ErrSlotFull,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
