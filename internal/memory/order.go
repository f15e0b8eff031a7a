package memory

import (
	"context"
	"sync"

	"github.com/candyhaus/sweetshop/internal/domain/order"
)

var _ order.Repository = (*OrderStore)(nil)

// OrderStore is an in-memory append-only order store.
type OrderStore struct {
	mu     sync.Mutex
	orders []order.Order
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

// Create appends the order.
func (s *OrderStore) Create(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, *o)
	return nil
}

// List returns every order in insertion order.
func (s *OrderStore) List(_ context.Context) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]order.Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}
