package booking

// SlotStats aggregates the orders booked into one slot on one date.
type SlotStats struct {
	Count int `json:"count"`
	Items int `json:"items"`
}

// Thresholds configure when a slot is reported full. Full is a capacity
// warning for the administrator; by default nothing rejects a booking past
// either threshold.
type Thresholds struct {
	MaxOrders int
	MaxItems  int
}

// DefaultThresholds returns the stock capacity warning levels.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxOrders: 10, MaxItems: 30}
}

// GroupByDate partitions orders into per-date buckets. Every order lands in
// exactly one bucket and input order is preserved within each bucket.
func GroupByDate(orders []*Order) map[string][]*Order {
	grouped := make(map[string][]*Order)
	for _, o := range orders {
		grouped[o.Date] = append(grouped[o.Date], o)
	}
	return grouped
}

// StatsForDate computes per-slot statistics over the orders placed for date.
// Orders without a slot label carry no slot statistics; they still show up
// in GroupByDate. Count is the number of orders in the slot, Items the sum
// of cart-entry quantities across them.
func StatsForDate(orders []*Order, date string) map[string]SlotStats {
	stats := make(map[string]SlotStats)
	for _, o := range orders {
		if o.Date != date || o.TimeSlot == "" {
			continue
		}
		s := stats[o.TimeSlot]
		s.Count++
		s.Items += o.ItemCount()
		stats[o.TimeSlot] = s
	}
	return stats
}

// IsFull reports whether the slot has reached either capacity threshold.
func IsFull(stats map[string]SlotStats, label string, t Thresholds) bool {
	s, ok := stats[label]
	if !ok {
		return false
	}
	return s.Count >= t.MaxOrders || s.Items >= t.MaxItems
}
