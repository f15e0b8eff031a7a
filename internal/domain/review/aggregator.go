package review

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

const (
	// MinRating and MaxRating bound the accepted rating scale.
	MinRating = 1
	MaxRating = 5
)

// Aggregator validates review submissions and computes per-sweet aggregates
// on top of a Repository.
type Aggregator struct {
	reviews Repository
	now     func() time.Time
}

// NewAggregator creates an Aggregator backed by the given repository.
func NewAggregator(reviews Repository) *Aggregator {
	return &Aggregator{reviews: reviews, now: time.Now}
}

// Submit validates and stores a new review. It rejects ratings outside
// [MinRating, MaxRating] and empty comments.
func (a *Aggregator) Submit(ctx context.Context, sweetID int64, reviewer string, rating int, comment string) (*Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	if strings.TrimSpace(comment) == "" {
		return nil, &ValidationError{Field: "comment", Reason: "is required"}
	}

	r := &Review{
		SweetID:   sweetID,
		Reviewer:  reviewer,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: a.now(),
	}
	if err := a.reviews.Add(ctx, r); err != nil {
		return nil, errors.Wrap(err, "add review")
	}
	return r, nil
}

// All returns every stored review in insertion order.
func (a *Aggregator) All(ctx context.Context) ([]Review, error) {
	return a.reviews.List(ctx)
}

// ForSweet returns every review referencing the sweet, in insertion order.
func (a *Aggregator) ForSweet(ctx context.Context, sweetID int64) ([]Review, error) {
	return a.reviews.ForSweet(ctx, sweetID)
}

// AverageRating returns the arithmetic mean rating for the sweet, or 0 when
// no reviews exist.
func (a *Aggregator) AverageRating(ctx context.Context, sweetID int64) (float64, error) {
	rs, err := a.reviews.ForSweet(ctx, sweetID)
	if err != nil {
		return 0, errors.Wrap(err, "list reviews")
	}
	if len(rs) == 0 {
		return 0, nil
	}

	sum := 0
	for _, r := range rs {
		sum += r.Rating
	}
	return float64(sum) / float64(len(rs)), nil
}

// RecentFor returns up to n reviews for the sweet, earliest first. The
// insertion-order slice is intentional: callers page from the head.
func (a *Aggregator) RecentFor(ctx context.Context, sweetID int64, n int) ([]Review, error) {
	rs, err := a.reviews.ForSweet(ctx, sweetID)
	if err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	if n < 0 {
		n = 0
	}
	if n > len(rs) {
		n = len(rs)
	}
	return rs[:n], nil
}
