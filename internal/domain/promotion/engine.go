package promotion

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

// Draft holds the input for creating a promotion.
type Draft struct {
	Name        string
	Discount    decimal.Decimal
	Kind        Kind
	StartDate   time.Time
	EndDate     time.Time
	Categories  []string
	MinPurchase decimal.Decimal
	MaxUses     *int
}

// Engine validates promotion drafts and serves reads with the status derived
// from the injected clock.
type Engine struct {
	repo Repository
	now  func() time.Time
}

// NewEngine creates an Engine backed by the given repository.
func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Create validates the draft and stores a new promotion with UsesCount zero.
func (e *Engine) Create(ctx context.Context, d Draft) (*Promotion, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}

	p := &Promotion{
		Name:        d.Name,
		Discount:    d.Discount,
		Kind:        d.Kind,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Categories:  d.Categories,
		MinPurchase: d.MinPurchase,
		MaxUses:     d.MaxUses,
		UsesCount:   0,
	}
	if err := e.repo.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create promotion")
	}
	return p, nil
}

func validateDraft(d Draft) error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if d.Discount.IsZero() || d.Discount.IsNegative() {
		return &ValidationError{Field: "discount", Reason: "must be greater than 0"}
	}
	if d.Kind != KindPercentage && d.Kind != KindFixed {
		return &ValidationError{Field: "kind", Reason: "must be percentage or fixed"}
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return &ValidationError{Field: "dates", Reason: "are required"}
	}
	if !truncateToDay(d.StartDate).Before(truncateToDay(d.EndDate)) {
		return &ValidationError{Field: "endDate", Reason: "must be after start date"}
	}
	if len(d.Categories) == 0 {
		return &ValidationError{Field: "categories", Reason: "must include at least one category"}
	}
	for _, c := range d.Categories {
		if !sweet.ValidCategory(c) {
			return &ValidationError{Field: "categories", Reason: "contains an unknown category"}
		}
	}
	if d.MinPurchase.IsNegative() {
		return &ValidationError{Field: "minPurchase", Reason: "must not be negative"}
	}
	if d.MaxUses != nil && *d.MaxUses <= 0 {
		return &ValidationError{Field: "maxUses", Reason: "must be greater than 0 when set"}
	}
	return nil
}

// Get returns a single promotion by id.
func (e *Engine) Get(ctx context.Context, id int64) (*Promotion, error) {
	return e.repo.Get(ctx, id)
}

// List returns all promotions in insertion order.
//
// Status is intentionally absent from the stored record; render it per read
// with StatusAt(Now()) so a promotion created with a past end date is
// immediately ended.
func (e *Engine) List(ctx context.Context) ([]Promotion, error) {
	return e.repo.List(ctx)
}

// Now exposes the engine's clock so callers derive status from the same
// time source the engine validates with.
func (e *Engine) Now() time.Time {
	return e.now()
}

// ConsumeUse records one use of the promotion. It fails with
// ErrUsageLimitReached once the cap is exhausted. Discount application never
// calls this.
func (e *Engine) ConsumeUse(ctx context.Context, id int64) error {
	return e.repo.IncrementUses(ctx, id)
}
