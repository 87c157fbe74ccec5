package auth

import (
	"context"
	"sync"
)

// MockUserRepo is a mock implementation of UserRepo for testing
type MockUserRepo struct {
	mu         sync.RWMutex
	users      map[string]*User
	CreateFunc func(ctx context.Context, user *User) error
	GetFunc    func(ctx context.Context, id string) (*User, error)
	SaveFunc   func(ctx context.Context, user *User) error
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		users: make(map[string]*User),
	}
}

func (m *MockUserRepo) Create(ctx context.Context, user *User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepo) Get(ctx context.Context, id string) (*User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id], nil
}

func (m *MockUserRepo) Save(ctx context.Context, user *User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

// MockCartDestroyer records the keys handed to Destroy.
type MockCartDestroyer struct {
	mu        sync.Mutex
	destroyed []string
}

func NewMockCartDestroyer() *MockCartDestroyer {
	return &MockCartDestroyer{}
}

func (m *MockCartDestroyer) Destroy(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = append(m.destroyed, key)
}

func (m *MockCartDestroyer) Destroyed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.destroyed))
	copy(result, m.destroyed)
	return result
}
