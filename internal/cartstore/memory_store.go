package cartstore

import (
	"context"
	"sync"

	"github.com/greenbean/storefront-backend/internal/app/model"
)

// memoryStore keeps carts in process memory. Used by tests and as a
// degraded single-instance mode when Redis is unconfigured.
type memoryStore struct {
	mu      sync.RWMutex
	items   map[string]model.Cart
	coupons map[string]model.Coupon
}

func NewMemoryStore() Store {
	return &memoryStore{
		items:   make(map[string]model.Cart),
		coupons: make(map[string]model.Coupon),
	}
}

func (s *memoryStore) Load(_ context.Context, sessionID string) (model.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.items[sessionID]
	if !ok {
		return model.Cart{}, nil
	}
	cart := make(model.Cart, len(stored))
	copy(cart, stored)
	return cart, nil
}

func (s *memoryStore) Save(_ context.Context, sessionID string, cart model.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(model.Cart, len(cart))
	copy(stored, cart)
	s.items[sessionID] = stored
	return nil
}

func (s *memoryStore) LoadCoupon(_ context.Context, sessionID string) (*model.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coupon, ok := s.coupons[sessionID]
	if !ok {
		return nil, nil
	}
	return &coupon, nil
}

func (s *memoryStore) SaveCoupon(_ context.Context, sessionID string, coupon *model.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if coupon == nil {
		delete(s.coupons, sessionID)
		return nil
	}
	s.coupons[sessionID] = *coupon
	return nil
}
