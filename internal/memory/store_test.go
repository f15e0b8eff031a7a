package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candyhaus/sweetshop/internal/domain/order"
	"github.com/candyhaus/sweetshop/internal/domain/promotion"
	"github.com/candyhaus/sweetshop/internal/domain/review"
)

func TestReviewStore_IDsMonotonicallyIncrease(t *testing.T) {
	store := NewReviewStore()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		r := &review.Review{SweetID: 1, Reviewer: "asha", Rating: 4, Comment: "good"}
		require.NoError(t, store.Add(ctx, r))
		assert.Equal(t, int64(i), r.ID)
	}
}

func TestReviewStore_ForSweetFilters(t *testing.T) {
	store := NewReviewStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, &review.Review{SweetID: 1, Comment: "a"}))
	require.NoError(t, store.Add(ctx, &review.Review{SweetID: 2, Comment: "b"}))
	require.NoError(t, store.Add(ctx, &review.Review{SweetID: 1, Comment: "c"}))

	rs, err := store.ForSweet(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "a", rs[0].Comment)
	assert.Equal(t, "c", rs[1].Comment)

	rs, err = store.ForSweet(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestPromotionStore_CreateAndGet(t *testing.T) {
	store := NewPromotionStore()
	ctx := context.Background()

	p := &promotion.Promotion{
		Name:       "Diwali Special",
		Discount:   decimal.NewFromInt(20),
		Kind:       promotion.KindPercentage,
		StartDate:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
		Categories: []string{"Indian"},
	}
	require.NoError(t, store.Create(ctx, p))
	assert.Equal(t, int64(1), p.ID)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Diwali Special", got.Name)

	_, err = store.Get(ctx, 2)
	assert.ErrorIs(t, err, promotion.ErrNotFound)
}

func TestPromotionStore_IncrementUsesEnforcesCap(t *testing.T) {
	store := NewPromotionStore()
	ctx := context.Background()

	maxUses := 2
	p := &promotion.Promotion{Name: "Capped", MaxUses: &maxUses}
	require.NoError(t, store.Create(ctx, p))

	require.NoError(t, store.IncrementUses(ctx, p.ID))
	require.NoError(t, store.IncrementUses(ctx, p.ID))
	require.ErrorIs(t, store.IncrementUses(ctx, p.ID), promotion.ErrUsageLimitReached)

	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsesCount)
}

func TestPromotionStore_IncrementUsesUnknown(t *testing.T) {
	store := NewPromotionStore()
	assert.ErrorIs(t, store.IncrementUses(context.Background(), 9), promotion.ErrNotFound)
}

func TestPromotionStore_UncappedNeverExhausts(t *testing.T) {
	store := NewPromotionStore()
	ctx := context.Background()

	p := &promotion.Promotion{Name: "Unlimited"}
	require.NoError(t, store.Create(ctx, p))

	for range 100 {
		require.NoError(t, store.IncrementUses(ctx, p.ID))
	}

	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.UsesCount)
}

func TestOrderStore_AppendAndList(t *testing.T) {
	store := NewOrderStore()
	ctx := context.Background()

	o1 := &order.Order{ID: 100, UserID: "u1", Total: decimal.NewFromInt(450), Status: order.StatusCompleted}
	o2 := &order.Order{ID: 101, UserID: "u2", Total: decimal.NewFromInt(120), Status: order.StatusCompleted}
	require.NoError(t, store.Create(ctx, o1))
	require.NoError(t, store.Create(ctx, o2))

	os, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, os, 2)
	assert.Equal(t, int64(100), os[0].ID)
	assert.Equal(t, int64(101), os[1].ID)
}
