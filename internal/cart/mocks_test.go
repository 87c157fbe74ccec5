package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/platterclub/platter/internal/menu"
)

// MockItemRepo is a mock implementation of menu.ItemRepo for testing
type MockItemRepo struct {
	mu      sync.RWMutex
	items   map[uuid.UUID]*menu.Item
	GetFunc func(ctx context.Context, id uuid.UUID) (*menu.Item, error)
}

func NewMockItemRepo() *MockItemRepo {
	return &MockItemRepo{
		items: make(map[uuid.UUID]*menu.Item),
	}
}

func (m *MockItemRepo) Create(ctx context.Context, item *menu.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *MockItemRepo) Get(ctx context.Context, id uuid.UUID) (*menu.Item, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[id], nil
}

func (m *MockItemRepo) List(ctx context.Context) ([]*menu.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*menu.Item
	for _, item := range m.items {
		result = append(result, item)
	}
	return result, nil
}

func (m *MockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}
