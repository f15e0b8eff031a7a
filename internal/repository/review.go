package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candyhaus/sweetshop/internal/domain/review"
)

const (
	addReviewSQL = `INSERT INTO reviews (sweet_id, reviewer, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	reviewsForSweetSQL = `SELECT id, sweet_id, reviewer, rating, comment, created_at
		FROM reviews WHERE sweet_id = $1 ORDER BY id`

	listReviewsSQL = `SELECT id, sweet_id, reviewer, rating, comment, created_at
		FROM reviews ORDER BY id`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Add persists the review and fills in its assigned identifier.
func (r *ReviewRepository) Add(ctx context.Context, rev *review.Review) error {
	err := r.pool.QueryRow(ctx, addReviewSQL,
		rev.SweetID, rev.Reviewer, rev.Rating, rev.Comment, rev.CreatedAt,
	).Scan(&rev.ID)
	if err != nil {
		return fmt.Errorf("adding review: %w", err)
	}
	return nil
}

// ForSweet returns the reviews referencing the sweet, oldest first.
func (r *ReviewRepository) ForSweet(ctx context.Context, sweetID int64) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, reviewsForSweetSQL, sweetID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for sweet %d: %w", sweetID, err)
	}
	return pgx.CollectRows(rows, scanReview)
}

// List returns every review, oldest first.
func (r *ReviewRepository) List(ctx context.Context) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	return pgx.CollectRows(rows, scanReview)
}

func scanReview(row pgx.CollectableRow) (review.Review, error) {
	var rev review.Review
	err := row.Scan(&rev.ID, &rev.SweetID, &rev.Reviewer, &rev.Rating, &rev.Comment, &rev.CreatedAt)
	return rev, err
}
