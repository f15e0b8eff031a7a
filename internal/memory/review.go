package memory

import (
	"context"
	"sync"

	"github.com/candyhaus/sweetshop/internal/domain/review"
)

var _ review.Repository = (*ReviewStore)(nil)

// ReviewStore is an in-memory append-only review store.
type ReviewStore struct {
	mu      sync.Mutex
	reviews []review.Review
	nextID  int64
}

// NewReviewStore creates an empty ReviewStore.
func NewReviewStore() *ReviewStore {
	return &ReviewStore{nextID: 1}
}

// Add assigns the next identifier and appends the review.
func (s *ReviewStore) Add(_ context.Context, r *review.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextID
	s.nextID++
	s.reviews = append(s.reviews, *r)
	return nil
}

// ForSweet returns the reviews referencing the sweet, in insertion order.
func (s *ReviewStore) ForSweet(_ context.Context, sweetID int64) ([]review.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []review.Review
	for _, r := range s.reviews {
		if r.SweetID == sweetID {
			out = append(out, r)
		}
	}
	return out, nil
}

// List returns every stored review in insertion order.
func (s *ReviewStore) List(_ context.Context) ([]review.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]review.Review, len(s.reviews))
	copy(out, s.reviews)
	return out, nil
}
