// Package promotion owns time-bounded discount rules and their derived
// lifecycle status.
package promotion

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind enumerates the supported discount interpretations.
type Kind string

const (
	// KindPercentage interprets the magnitude as a percentage of the subtotal.
	KindPercentage Kind = "percentage"
	// KindFixed interprets the magnitude as a fixed amount capped at the subtotal.
	KindFixed Kind = "fixed"
)

// Status is the lifecycle state derived from the calendar bounds. It is
// recomputed on every read and never stored as durable truth.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusEnded    Status = "ended"
)

var (
	// ErrNotFound is returned when a requested promotion does not exist.
	ErrNotFound = errors.New("promotion not found")
	// ErrUsageLimitReached is returned when consuming a use would exceed MaxUses.
	ErrUsageLimitReached = errors.New("promotion usage limit reached")
)

// ValidationError describes a rejected promotion draft.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid promotion: " + e.Field + " " + e.Reason
}

// Promotion is a discount rule bounded by inclusive calendar dates and
// scoped to a set of sweet categories. MaxUses of nil means unlimited;
// UsesCount is monotonically non-decreasing and never exceeds MaxUses.
type Promotion struct {
	ID          int64
	Name        string
	Discount    decimal.Decimal
	Kind        Kind
	StartDate   time.Time
	EndDate     time.Time
	Categories  []string
	MinPurchase decimal.Decimal
	MaxUses     *int
	UsesCount   int
}

// StatusAt derives the lifecycle status for the given instant. Bounds are
// inclusive at date granularity.
func (p Promotion) StatusAt(now time.Time) Status {
	today := truncateToDay(now)
	switch {
	case today.Before(truncateToDay(p.StartDate)):
		return StatusUpcoming
	case today.After(truncateToDay(p.EndDate)):
		return StatusEnded
	default:
		return StatusActive
	}
}

// NearLimit reports whether the promotion has consumed at least 90% of its
// usage cap. Promotions without a cap are never near the limit.
func (p Promotion) NearLimit() bool {
	return p.MaxUses != nil && float64(p.UsesCount) >= 0.9*float64(*p.MaxUses)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Repository is the promotion store contract.
type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	Get(ctx context.Context, id int64) (*Promotion, error)
	List(ctx context.Context) ([]Promotion, error)
	// IncrementUses adds one use, failing with ErrUsageLimitReached when the
	// cap is already exhausted. The check and increment are a single step so
	// UsesCount can never exceed MaxUses.
	IncrementUses(ctx context.Context, id int64) error
}
