// Package review owns per-sweet customer reviews and their aggregates.
package review

import (
	"context"
	"time"
)

// Review is an append-only customer review referencing a sweet by id.
type Review struct {
	ID        int64
	SweetID   int64
	Reviewer  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ValidationError describes a rejected review submission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid review: " + e.Field + " " + e.Reason
}

// Repository is the review store contract. Add assigns a monotonically
// increasing identifier and appends; reviews are never mutated or deleted.
type Repository interface {
	Add(ctx context.Context, r *Review) error
	ForSweet(ctx context.Context, sweetID int64) ([]Review, error)
	List(ctx context.Context) ([]Review, error)
}
