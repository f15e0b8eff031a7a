package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

const (
	listSweetsSQL = `SELECT id, name, price, category, stock, ingredients FROM sweets ORDER BY id`

	getSweetSQL = `SELECT id, name, price, category, stock, ingredients FROM sweets WHERE id = $1`

	// Id assignment mirrors the store contract: max existing id + 1. The
	// subselect is safe under the single logical writer the catalog assumes.
	addSweetSQL = `INSERT INTO sweets (id, name, price, category, stock, ingredients)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM sweets), $1, $2, $3, $4, $5)
		RETURNING id, name, price, category, stock, ingredients`

	updateSweetSQL = `UPDATE sweets SET
		name        = COALESCE($2::text, name),
		price       = COALESCE($3::numeric, price),
		category    = COALESCE($4::text, category),
		stock       = COALESCE($5::int, stock),
		ingredients = COALESCE($6::text[], ingredients)
		WHERE id = $1
		RETURNING id, name, price, category, stock, ingredients`

	removeSweetSQL = `DELETE FROM sweets WHERE id = $1`

	adjustStockSQL = `UPDATE sweets SET stock = GREATEST(0, stock + $2)
		WHERE id = $1
		RETURNING id, name, price, category, stock, ingredients`
)

var _ sweet.Repository = (*SweetRepository)(nil)

// SweetRepository implements sweet.Repository backed by PostgreSQL.
type SweetRepository struct {
	pool *pgxpool.Pool
}

// NewSweetRepository returns a SweetRepository that uses the given pool.
func NewSweetRepository(pool *pgxpool.Pool) *SweetRepository {
	return &SweetRepository{pool: pool}
}

// List returns the full catalog ordered by id.
func (r *SweetRepository) List(ctx context.Context) ([]sweet.Sweet, error) {
	rows, err := r.pool.Query(ctx, listSweetsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing sweets: %w", err)
	}
	return pgx.CollectRows(rows, scanSweet)
}

// Get returns a single sweet by its identifier.
func (r *SweetRepository) Get(ctx context.Context, id int64) (*sweet.Sweet, error) {
	rows, err := r.pool.Query(ctx, getSweetSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting sweet %d: %w", id, err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSweet)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sweet.ErrNotFound
		}
		return nil, fmt.Errorf("getting sweet %d: %w", id, err)
	}
	return &s, nil
}

// Add stores the draft with the next catalog identifier.
func (r *SweetRepository) Add(ctx context.Context, draft sweet.Sweet) (*sweet.Sweet, error) {
	rows, err := r.pool.Query(ctx, addSweetSQL,
		draft.Name, draft.Price, draft.Category, draft.Stock, draft.Ingredients,
	)
	if err != nil {
		return nil, fmt.Errorf("adding sweet: %w", err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSweet)
	if err != nil {
		return nil, fmt.Errorf("adding sweet: %w", err)
	}
	return &s, nil
}

// Update shallow-merges the patch into the stored record via COALESCE.
func (r *SweetRepository) Update(ctx context.Context, id int64, patch sweet.Patch) (*sweet.Sweet, error) {
	rows, err := r.pool.Query(ctx, updateSweetSQL,
		id, patch.Name, patch.Price, patch.Category, patch.Stock, patch.Ingredients,
	)
	if err != nil {
		return nil, fmt.Errorf("updating sweet %d: %w", id, err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSweet)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sweet.ErrNotFound
		}
		return nil, fmt.Errorf("updating sweet %d: %w", id, err)
	}
	return &s, nil
}

// Remove hard-deletes the record, reporting whether a row was removed.
func (r *SweetRepository) Remove(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, removeSweetSQL, id)
	if err != nil {
		return false, fmt.Errorf("removing sweet %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// AdjustStock applies the signed delta with the clamp at zero done in SQL,
// so the counter can never go negative regardless of the delta.
func (r *SweetRepository) AdjustStock(ctx context.Context, id int64, delta int) (*sweet.Sweet, error) {
	rows, err := r.pool.Query(ctx, adjustStockSQL, id, delta)
	if err != nil {
		return nil, fmt.Errorf("adjusting stock for sweet %d: %w", id, err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSweet)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sweet.ErrNotFound
		}
		return nil, fmt.Errorf("adjusting stock for sweet %d: %w", id, err)
	}
	return &s, nil
}

func scanSweet(row pgx.CollectableRow) (sweet.Sweet, error) {
	var s sweet.Sweet
	err := row.Scan(&s.ID, &s.Name, &s.Price, &s.Category, &s.Stock, &s.Ingredients)
	return s, err
}
