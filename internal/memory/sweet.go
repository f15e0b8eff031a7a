// Package memory provides the transient in-process store implementations.
// Every store serializes access with a mutex so the catalog's stock counters
// only ever see one writer at a time.
package memory

import (
	"context"
	"sync"

	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

var _ sweet.Repository = (*SweetStore)(nil)

// SweetStore is an in-memory catalog store. Records keep insertion order.
type SweetStore struct {
	mu     sync.Mutex
	sweets []sweet.Sweet
}

// NewSweetStore creates a SweetStore pre-populated with the given records.
func NewSweetStore(seed []sweet.Sweet) *SweetStore {
	s := &SweetStore{sweets: make([]sweet.Sweet, len(seed))}
	for i := range seed {
		s.sweets[i] = cloneSweet(seed[i])
	}
	return s
}

// cloneSweet copies the record including the ingredients backing array, so
// returned snapshots never alias store state.
func cloneSweet(s sweet.Sweet) sweet.Sweet {
	cp := s
	if s.Ingredients != nil {
		cp.Ingredients = append([]string(nil), s.Ingredients...)
	}
	return cp
}

// List returns the full catalog in insertion order.
func (s *SweetStore) List(_ context.Context) ([]sweet.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]sweet.Sweet, len(s.sweets))
	for i := range s.sweets {
		out[i] = cloneSweet(s.sweets[i])
	}
	return out, nil
}

// Get returns the sweet with the given id.
func (s *SweetStore) Get(_ context.Context, id int64) (*sweet.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sweets {
		if s.sweets[i].ID == id {
			cp := cloneSweet(s.sweets[i])
			return &cp, nil
		}
	}
	return nil, sweet.ErrNotFound
}

// Add assigns id = max(existing ids, 0) + 1 and appends the record.
func (s *SweetStore) Add(_ context.Context, draft sweet.Sweet) (*sweet.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for i := range s.sweets {
		if s.sweets[i].ID > maxID {
			maxID = s.sweets[i].ID
		}
	}
	draft.ID = maxID + 1
	s.sweets = append(s.sweets, cloneSweet(draft))

	cp := cloneSweet(draft)
	return &cp, nil
}

// Update shallow-merges the patch into the stored record.
func (s *SweetStore) Update(_ context.Context, id int64, patch sweet.Patch) (*sweet.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sweets {
		if s.sweets[i].ID == id {
			patch.Apply(&s.sweets[i])
			// The patch may have installed a caller-owned ingredients slice.
			s.sweets[i] = cloneSweet(s.sweets[i])
			cp := cloneSweet(s.sweets[i])
			return &cp, nil
		}
	}
	return nil, sweet.ErrNotFound
}

// Remove hard-deletes the record, reporting whether it existed.
func (s *SweetStore) Remove(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sweets {
		if s.sweets[i].ID == id {
			s.sweets = append(s.sweets[:i], s.sweets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// AdjustStock applies the signed delta, clamping the result at zero.
func (s *SweetStore) AdjustStock(_ context.Context, id int64, delta int) (*sweet.Sweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sweets {
		if s.sweets[i].ID == id {
			stock := s.sweets[i].Stock + delta
			if stock < 0 {
				stock = 0
			}
			s.sweets[i].Stock = stock
			cp := cloneSweet(s.sweets[i])
			return &cp, nil
		}
	}
	return nil, sweet.ErrNotFound
}
