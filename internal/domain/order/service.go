package order

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/candyhaus/sweetshop/internal/domain/cart"
	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

// StockAdjustment reports the outcome of one per-line stock decrement issued
// after order creation. The decrements are independent of each other and of
// the order write, so a partially applied checkout is visible to the caller
// instead of being hidden.
type StockAdjustment struct {
	SweetID   int64
	Delta     int
	Remaining int
	Err       error
}

// Service settles carts into orders and drives the resulting stock
// decrements into the catalog store.
type Service struct {
	catalog sweet.Repository
	orders  Repository

	now func() time.Time

	mu     sync.Mutex
	lastID int64
}

// NewService creates a settlement Service with the required stores.
func NewService(catalog sweet.Repository, orders Repository) *Service {
	return &Service{
		catalog: catalog,
		orders:  orders,
		now:     time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Checkout snapshots the cart into an immutable order, persists it, and then
// issues one stock decrement per line. The order is committed even if a
// later decrement fails; per-line outcomes are returned alongside it.
func (s *Service) Checkout(ctx context.Context, userID string, c cart.Cart) (*Order, []StockAdjustment, error) {
	if len(c.Lines) == 0 {
		return nil, nil, ErrEmptyCart
	}

	lines := make([]LineSnapshot, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = LineSnapshot{
			SweetID:  l.Sweet.ID,
			Name:     l.Sweet.Name,
			Price:    l.Sweet.Price,
			Quantity: l.Quantity,
		}
	}

	now := s.now()
	o := &Order{
		ID:        s.nextID(now),
		UserID:    userID,
		Lines:     lines,
		Total:     c.Total(),
		Status:    StatusCompleted,
		CreatedAt: now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, nil, errors.Wrap(err, "create order")
	}

	adjustments := make([]StockAdjustment, len(lines))
	for i, l := range lines {
		adj := StockAdjustment{SweetID: l.SweetID, Delta: -l.Quantity}
		updated, err := s.catalog.AdjustStock(ctx, l.SweetID, -l.Quantity)
		if err != nil {
			adj.Err = err
		} else {
			adj.Remaining = updated.Stock
		}
		adjustments[i] = adj
	}

	return o, adjustments, nil
}

// nextID derives a millisecond-timestamp identifier, bumped past the last
// issued one so ids stay strictly increasing when checkouts land in the same
// millisecond. The counter is shared across handler goroutines, so it is
// guarded by its own mutex.
func (s *Service) nextID(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
