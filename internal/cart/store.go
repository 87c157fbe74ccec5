package cart

import (
	"sync"

	"github.com/appetiteclub/apt"
)

// Store keeps one cart per session key. Carts are created lazily on first
// access and dropped on Destroy (order submitted, session ended).
type Store struct {
	mu     sync.RWMutex
	carts  map[string]*Cart
	logger apt.Logger
}

func NewStore(logger apt.Logger) *Store {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Store{
		carts:  make(map[string]*Cart),
		logger: logger,
	}
}

// Get returns the cart for the session key, creating it when absent.
func (s *Store) Get(key string) *Cart {
	s.mu.RLock()
	c, ok := s.carts[key]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[key]; ok {
		return c
	}
	c = New()
	s.carts[key] = c
	s.logger.Debug("cart created", "session", key)
	return c
}

// Destroy removes the session's cart.
func (s *Store) Destroy(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, key)
}

// Len returns the number of live carts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}
