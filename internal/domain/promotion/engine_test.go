package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPromotionRepo struct {
	promotions []Promotion
	nextID     int64
	createErr  error
}

func (m *mockPromotionRepo) Create(_ context.Context, p *Promotion) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	p.ID = m.nextID
	m.promotions = append(m.promotions, *p)
	return nil
}

func (m *mockPromotionRepo) Get(_ context.Context, id int64) (*Promotion, error) {
	for i := range m.promotions {
		if m.promotions[i].ID == id {
			cp := m.promotions[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockPromotionRepo) List(_ context.Context) ([]Promotion, error) {
	return m.promotions, nil
}

func (m *mockPromotionRepo) IncrementUses(_ context.Context, id int64) error {
	for i := range m.promotions {
		if m.promotions[i].ID == id {
			p := &m.promotions[i]
			if p.MaxUses != nil && p.UsesCount >= *p.MaxUses {
				return ErrUsageLimitReached
			}
			p.UsesCount++
			return nil
		}
	}
	return ErrNotFound
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validDraft() Draft {
	return Draft{
		Name:       "Diwali Special",
		Discount:   decimal.NewFromInt(20),
		Kind:       KindPercentage,
		StartDate:  date(2026, 10, 1),
		EndDate:    date(2026, 10, 31),
		Categories: []string{"Indian"},
	}
}

func TestCreate_Valid(t *testing.T) {
	engine := NewEngine(&mockPromotionRepo{})

	p, err := engine.Create(context.Background(), validDraft())
	require.NoError(t, err)

	assert.Equal(t, int64(1), p.ID)
	assert.Zero(t, p.UsesCount)
	assert.Nil(t, p.MaxUses)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Draft)
		wantField string
	}{
		{"missing name", func(d *Draft) { d.Name = "" }, "name"},
		{"zero discount", func(d *Draft) { d.Discount = decimal.Zero }, "discount"},
		{"negative discount", func(d *Draft) { d.Discount = decimal.NewFromInt(-5) }, "discount"},
		{"unknown kind", func(d *Draft) { d.Kind = "bogo" }, "kind"},
		{"missing start date", func(d *Draft) { d.StartDate = time.Time{} }, "dates"},
		{"missing end date", func(d *Draft) { d.EndDate = time.Time{} }, "dates"},
		{"end before start", func(d *Draft) { d.EndDate = date(2026, 9, 1) }, "endDate"},
		{"end equals start", func(d *Draft) { d.EndDate = d.StartDate }, "endDate"},
		{"no categories", func(d *Draft) { d.Categories = nil }, "categories"},
		{"unknown category", func(d *Draft) { d.Categories = []string{"Savoury"} }, "categories"},
		{"negative min purchase", func(d *Draft) { d.MinPurchase = decimal.NewFromInt(-1) }, "minPurchase"},
		{"zero max uses", func(d *Draft) { v := 0; d.MaxUses = &v }, "maxUses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(&mockPromotionRepo{})
			draft := validDraft()
			tt.mutate(&draft)

			_, err := engine.Create(context.Background(), draft)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestStatusAt(t *testing.T) {
	p := Promotion{
		StartDate: date(2026, 10, 1),
		EndDate:   date(2026, 10, 31),
	}

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"before start", date(2026, 9, 30), StatusUpcoming},
		{"on start date", date(2026, 10, 1), StatusActive},
		{"mid range", date(2026, 10, 15), StatusActive},
		{"on end date", date(2026, 10, 31), StatusActive},
		{"end date evening", time.Date(2026, 10, 31, 23, 59, 0, 0, time.UTC), StatusActive},
		{"after end", date(2026, 11, 1), StatusEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.StatusAt(tt.now))
		})
	}
}

func TestNearLimit(t *testing.T) {
	limit := func(maxUses, usesCount int) bool {
		return Promotion{MaxUses: &maxUses, UsesCount: usesCount}.NearLimit()
	}

	assert.False(t, Promotion{UsesCount: 1000}.NearLimit(), "uncapped promotions are never near the limit")
	assert.False(t, limit(10, 8))
	assert.True(t, limit(10, 9))
	assert.True(t, limit(10, 10))
	assert.True(t, limit(100, 90))
	assert.False(t, limit(100, 89))
}

func TestApply_Percentage(t *testing.T) {
	p := Promotion{Kind: KindPercentage, Discount: decimal.NewFromInt(20)}

	got := Apply(p, decimal.NewFromInt(450))
	assert.True(t, got.Equal(decimal.NewFromInt(90)), "got %s", got)
}

func TestApply_FixedCappedAtSubtotal(t *testing.T) {
	p := Promotion{Kind: KindFixed, Discount: decimal.NewFromInt(500)}

	got := Apply(p, decimal.NewFromInt(300))
	assert.True(t, got.Equal(decimal.NewFromInt(300)), "got %s", got)
}

func TestApply_FixedBelowSubtotal(t *testing.T) {
	p := Promotion{Kind: KindFixed, Discount: decimal.NewFromInt(100)}

	got := Apply(p, decimal.NewFromInt(300))
	assert.True(t, got.Equal(decimal.NewFromInt(100)), "got %s", got)
}

func TestApply_UnknownKind(t *testing.T) {
	p := Promotion{Kind: "bogo", Discount: decimal.NewFromInt(10)}
	assert.True(t, Apply(p, decimal.NewFromInt(100)).IsZero())
}

func TestApply_DoesNotTouchUsesCount(t *testing.T) {
	p := Promotion{Kind: KindPercentage, Discount: decimal.NewFromInt(10), UsesCount: 3}
	Apply(p, decimal.NewFromInt(100))
	assert.Equal(t, 3, p.UsesCount)
}

func TestConsumeUse_StopsAtCap(t *testing.T) {
	repo := &mockPromotionRepo{}
	engine := NewEngine(repo)
	ctx := context.Background()

	maxUses := 2
	draft := validDraft()
	draft.MaxUses = &maxUses
	p, err := engine.Create(ctx, draft)
	require.NoError(t, err)

	require.NoError(t, engine.ConsumeUse(ctx, p.ID))
	require.NoError(t, engine.ConsumeUse(ctx, p.ID))
	require.ErrorIs(t, engine.ConsumeUse(ctx, p.ID), ErrUsageLimitReached)

	stored, err := engine.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.UsesCount)
}

func TestConsumeUse_UnknownPromotion(t *testing.T) {
	engine := NewEngine(&mockPromotionRepo{})
	assert.ErrorIs(t, engine.ConsumeUse(context.Background(), 42), ErrNotFound)
}

func TestList_StatusDerivedPerRead(t *testing.T) {
	repo := &mockPromotionRepo{}
	engine := NewEngine(repo).WithClock(fixedClock(date(2026, 10, 15)))

	_, err := engine.Create(context.Background(), validDraft())
	require.NoError(t, err)

	ps, err := engine.List(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, StatusActive, ps[0].StatusAt(engine.Now()))

	engine.WithClock(fixedClock(date(2026, 12, 1)))
	assert.Equal(t, StatusEnded, ps[0].StatusAt(engine.Now()))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
