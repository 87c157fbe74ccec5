package booking

import (
	"context"
	"fmt"
	"sync"
)

// MockOrderRepo is a mock implementation of OrderRepo for testing
type MockOrderRepo struct {
	mu              sync.RWMutex
	orders          []*Order
	CreateFunc      func(ctx context.Context, order *Order) error
	GetByNumberFunc func(ctx context.Context, number string) (*Order, error)
	ListFunc        func(ctx context.Context) ([]*Order, error)
	ListByDateFunc  func(ctx context.Context, date string) ([]*Order, error)
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{}
}

func (m *MockOrderRepo) Create(ctx context.Context, order *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order)
	return nil
}

func (m *MockOrderRepo) GetByNumber(ctx context.Context, number string) (*Order, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.Number == number {
			return o, nil
		}
	}
	return nil, nil
}

func (m *MockOrderRepo) List(ctx context.Context) ([]*Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*Order, len(m.orders))
	copy(result, m.orders)
	return result, nil
}

func (m *MockOrderRepo) ListByDate(ctx context.Context, date string) ([]*Order, error) {
	if m.ListByDateFunc != nil {
		return m.ListByDateFunc(ctx, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Order
	for _, o := range m.orders {
		if o.Date == date {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *MockOrderRepo) Stored() []*Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*Order, len(m.orders))
	copy(result, m.orders)
	return result
}

// MockSlotRepo is a mock implementation of SlotRepo for testing
type MockSlotRepo struct {
	mu           sync.RWMutex
	slots        map[string][]string
	GetSlotsFunc func(ctx context.Context, date string) ([]string, error)
	PutSlotsFunc func(ctx context.Context, date string, slots []string) error
}

func NewMockSlotRepo() *MockSlotRepo {
	return &MockSlotRepo{
		slots: make(map[string][]string),
	}
}

func (m *MockSlotRepo) GetSlots(ctx context.Context, date string) ([]string, error) {
	if m.GetSlotsFunc != nil {
		return m.GetSlotsFunc(ctx, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.slots[date]
	result := make([]string, len(stored))
	copy(result, stored)
	return result, nil
}

func (m *MockSlotRepo) PutSlots(ctx context.Context, date string, slots []string) error {
	if m.PutSlotsFunc != nil {
		return m.PutSlotsFunc(ctx, date, slots)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]string, len(slots))
	copy(stored, slots)
	m.slots[date] = stored
	return nil
}

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	published   []publishedMessage
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

type publishedMessage struct {
	topic string
	msg   []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedMessage{topic: topic, msg: msg})
	return nil
}

func (m *MockPublisher) Published() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]publishedMessage, len(m.published))
	copy(result, m.published)
	return result
}

// FailingPublisher always returns an error.
type FailingPublisher struct{}

func (FailingPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	return fmt.Errorf("publisher unavailable")
}
