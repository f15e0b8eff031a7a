package memory

import (
	"context"
	"sync"

	"github.com/candyhaus/sweetshop/internal/domain/promotion"
)

var _ promotion.Repository = (*PromotionStore)(nil)

// PromotionStore is an in-memory promotion store.
type PromotionStore struct {
	mu         sync.Mutex
	promotions []promotion.Promotion
	nextID     int64
}

// NewPromotionStore creates an empty PromotionStore.
func NewPromotionStore() *PromotionStore {
	return &PromotionStore{nextID: 1}
}

// Create assigns the next identifier and appends the promotion.
func (s *PromotionStore) Create(_ context.Context, p *promotion.Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID
	s.nextID++
	s.promotions = append(s.promotions, *p)
	return nil
}

// Get returns the promotion with the given id.
func (s *PromotionStore) Get(_ context.Context, id int64) (*promotion.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.promotions {
		if s.promotions[i].ID == id {
			cp := s.promotions[i]
			return &cp, nil
		}
	}
	return nil, promotion.ErrNotFound
}

// List returns every promotion in insertion order.
func (s *PromotionStore) List(_ context.Context) ([]promotion.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]promotion.Promotion, len(s.promotions))
	copy(out, s.promotions)
	return out, nil
}

// IncrementUses adds one use under the lock so the counter can never pass
// the cap.
func (s *PromotionStore) IncrementUses(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.promotions {
		if s.promotions[i].ID == id {
			p := &s.promotions[i]
			if p.MaxUses != nil && p.UsesCount >= *p.MaxUses {
				return promotion.ErrUsageLimitReached
			}
			p.UsesCount++
			return nil
		}
	}
	return promotion.ErrNotFound
}
