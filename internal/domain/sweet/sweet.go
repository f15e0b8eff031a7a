// Package sweet defines the catalog's sweet records and the store contract
// that owns them.
package sweet

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested sweet does not exist.
var ErrNotFound = errors.New("sweet not found")

// Categories is the closed set of sweet categories accepted by the catalog.
var Categories = []string{"Indian", "Chocolate", "Pastry", "Gummy", "Hard Candy", "Caramel", "Licorice"}

// ValidCategory reports whether c belongs to the known category set.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Sweet is a sellable catalog item. The identifier is unique and immutable
// once assigned; Stock is never negative.
type Sweet struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Category    string
	Stock       int
	Ingredients []string
}

// ValidationError describes a rejected sweet draft.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid sweet: " + e.Field + " " + e.Reason
}

// Validate checks the invariants of a sweet draft before it enters the store.
func (s Sweet) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if s.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if !ValidCategory(s.Category) {
		return &ValidationError{Field: "category", Reason: "is not a known category"}
	}
	if s.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}

// Patch carries a partial update. Nil fields are left unchanged, which keeps
// the shallow-merge semantics explicit and type-checked.
type Patch struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	Stock       *int
	Ingredients *[]string
}

// Apply merges the set fields of the patch into s.
func (p Patch) Apply(s *Sweet) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Stock != nil {
		s.Stock = *p.Stock
	}
	if p.Ingredients != nil {
		s.Ingredients = *p.Ingredients
	}
}

// Repository is the catalog store contract. Implementations guarantee that
// stock never goes negative: AdjustStock clamps at zero rather than failing,
// so a decrement larger than the remaining stock floors the counter.
type Repository interface {
	List(ctx context.Context) ([]Sweet, error)
	Get(ctx context.Context, id int64) (*Sweet, error)
	// Add assigns id = max(existing ids, 0) + 1 and appends the record.
	Add(ctx context.Context, draft Sweet) (*Sweet, error)
	Update(ctx context.Context, id int64, patch Patch) (*Sweet, error)
	// Remove reports whether a record existed and was removed.
	Remove(ctx context.Context, id int64) (bool, error)
	// AdjustStock sets stock = max(0, stock + delta). Delta is negative for a
	// purchase and positive for a restock.
	AdjustStock(ctx context.Context, id int64, delta int) (*Sweet, error)
}
