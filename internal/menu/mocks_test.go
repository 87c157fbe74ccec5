package menu

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockItemRepo is a mock implementation of ItemRepo for testing
type MockItemRepo struct {
	mu         sync.RWMutex
	items      map[uuid.UUID]*Item
	CreateFunc func(ctx context.Context, item *Item) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Item, error)
	ListFunc   func(ctx context.Context) ([]*Item, error)
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockItemRepo() *MockItemRepo {
	return &MockItemRepo{
		items: make(map[uuid.UUID]*Item),
	}
}

func (m *MockItemRepo) Create(ctx context.Context, item *Item) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *MockItemRepo) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[id], nil
}

func (m *MockItemRepo) List(ctx context.Context) ([]*Item, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*Item, 0, len(m.items))
	for _, item := range m.items {
		result = append(result, item)
	}
	return result, nil
}

func (m *MockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}
