package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candyhaus/sweetshop/internal/domain/promotion"
)

const (
	createPromotionSQL = `INSERT INTO promotions
		(name, discount, kind, start_date, end_date, categories, min_purchase, max_uses, uses_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	getPromotionSQL = `SELECT id, name, discount, kind, start_date, end_date,
		categories, min_purchase, max_uses, uses_count
		FROM promotions WHERE id = $1`

	listPromotionsSQL = `SELECT id, name, discount, kind, start_date, end_date,
		categories, min_purchase, max_uses, uses_count
		FROM promotions ORDER BY id`

	// Check and increment in one statement so the counter can never pass the
	// cap, even if a future caller skips the engine.
	incrementUsesSQL = `UPDATE promotions SET uses_count = uses_count + 1
		WHERE id = $1 AND (max_uses IS NULL OR uses_count < max_uses)`

	promotionExistsSQL = `SELECT EXISTS (SELECT 1 FROM promotions WHERE id = $1)`
)

var _ promotion.Repository = (*PromotionRepository)(nil)

// PromotionRepository implements promotion.Repository backed by PostgreSQL.
type PromotionRepository struct {
	pool *pgxpool.Pool
}

// NewPromotionRepository returns a PromotionRepository that uses the given pool.
func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// Create persists the promotion and fills in its assigned identifier.
func (r *PromotionRepository) Create(ctx context.Context, p *promotion.Promotion) error {
	err := r.pool.QueryRow(ctx, createPromotionSQL,
		p.Name, p.Discount, string(p.Kind), p.StartDate, p.EndDate,
		p.Categories, p.MinPurchase, p.MaxUses, p.UsesCount,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("creating promotion: %w", err)
	}
	return nil
}

// Get returns a single promotion by its identifier.
func (r *PromotionRepository) Get(ctx context.Context, id int64) (*promotion.Promotion, error) {
	rows, err := r.pool.Query(ctx, getPromotionSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting promotion %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPromotion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promotion.ErrNotFound
		}
		return nil, fmt.Errorf("getting promotion %d: %w", id, err)
	}
	return &p, nil
}

// List returns every promotion ordered by id.
func (r *PromotionRepository) List(ctx context.Context) ([]promotion.Promotion, error) {
	rows, err := r.pool.Query(ctx, listPromotionsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing promotions: %w", err)
	}
	return pgx.CollectRows(rows, scanPromotion)
}

// IncrementUses adds one use, distinguishing an exhausted cap from an
// unknown promotion.
func (r *PromotionRepository) IncrementUses(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, incrementUsesSQL, id)
	if err != nil {
		return fmt.Errorf("incrementing uses for promotion %d: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, promotionExistsSQL, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking promotion %d: %w", id, err)
	}
	if !exists {
		return promotion.ErrNotFound
	}
	return promotion.ErrUsageLimitReached
}

func scanPromotion(row pgx.CollectableRow) (promotion.Promotion, error) {
	var (
		p       promotion.Promotion
		kind    string
		maxUses *int32
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Discount, &kind, &p.StartDate, &p.EndDate,
		&p.Categories, &p.MinPurchase, &maxUses, &p.UsesCount,
	)
	p.Kind = promotion.Kind(kind)
	if maxUses != nil {
		v := int(*maxUses)
		p.MaxUses = &v
	}
	return p, err
}
