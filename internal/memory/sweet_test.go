package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

func seedSweets() []sweet.Sweet {
	return []sweet.Sweet{
		{ID: 1, Name: "Gulab Jamun", Price: decimal.NewFromInt(150), Category: "Indian", Stock: 45},
		{ID: 2, Name: "Jalebi", Price: decimal.NewFromInt(120), Category: "Indian", Stock: 60},
	}
}

func TestSweetStore_ListPreservesInsertionOrder(t *testing.T) {
	store := NewSweetStore(seedSweets())

	sweets, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sweets, 2)
	assert.Equal(t, "Gulab Jamun", sweets[0].Name)
	assert.Equal(t, "Jalebi", sweets[1].Name)
}

func TestSweetStore_GetUnknown(t *testing.T) {
	store := NewSweetStore(nil)

	_, err := store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, sweet.ErrNotFound)
}

func TestSweetStore_AddAssignsMaxPlusOne(t *testing.T) {
	store := NewSweetStore(seedSweets())
	ctx := context.Background()

	s, err := store.Add(ctx, sweet.Sweet{Name: "Barfi", Price: decimal.NewFromInt(200), Category: "Indian"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.ID)

	// Removing the highest id frees it for reuse.
	_, err = store.Remove(ctx, 3)
	require.NoError(t, err)

	s, err = store.Add(ctx, sweet.Sweet{Name: "Kheer", Price: decimal.NewFromInt(140), Category: "Indian"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.ID)
}

func TestSweetStore_AddToEmpty(t *testing.T) {
	store := NewSweetStore(nil)

	s, err := store.Add(context.Background(), sweet.Sweet{Name: "Laddu", Price: decimal.NewFromInt(160), Category: "Indian"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID)
}

func TestSweetStore_UpdateShallowMerge(t *testing.T) {
	store := NewSweetStore(seedSweets())

	stock := 99
	s, err := store.Update(context.Background(), 1, sweet.Patch{Stock: &stock})
	require.NoError(t, err)

	assert.Equal(t, 99, s.Stock)
	assert.Equal(t, "Gulab Jamun", s.Name, "unset fields keep their values")
}

func TestSweetStore_UpdateUnknown(t *testing.T) {
	store := NewSweetStore(nil)

	name := "x"
	_, err := store.Update(context.Background(), 7, sweet.Patch{Name: &name})
	assert.ErrorIs(t, err, sweet.ErrNotFound)
}

func TestSweetStore_Remove(t *testing.T) {
	store := NewSweetStore(seedSweets())
	ctx := context.Background()

	removed, err := store.Remove(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, 1)
	require.NoError(t, err)
	assert.False(t, removed, "second remove reports a missing record")

	sweets, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sweets, 1)
}

func TestSweetStore_AdjustStockClampsAtZero(t *testing.T) {
	store := NewSweetStore(seedSweets())
	ctx := context.Background()

	s, err := store.AdjustStock(ctx, 1, -3)
	require.NoError(t, err)
	assert.Equal(t, 42, s.Stock)

	s, err = store.AdjustStock(ctx, 1, -100)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Stock)

	s, err = store.AdjustStock(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Stock)
}

func TestSweetStore_ReturnsCopies(t *testing.T) {
	store := NewSweetStore(seedSweets())
	ctx := context.Background()

	s, err := store.Get(ctx, 1)
	require.NoError(t, err)
	s.Name = "Mutated"

	stored, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Gulab Jamun", stored.Name)
}

func TestSweetStore_IngredientsDoNotAliasStore(t *testing.T) {
	seed := []sweet.Sweet{{
		ID:          1,
		Name:        "Gulab Jamun",
		Price:       decimal.NewFromInt(150),
		Category:    "Indian",
		Stock:       45,
		Ingredients: []string{"Milk Solids", "Sugar Syrup"},
	}}
	store := NewSweetStore(seed)
	ctx := context.Background()

	// Mutating the seed slice after construction leaves the store untouched.
	seed[0].Ingredients[0] = "Mutated"

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	got.Ingredients[1] = "Also Mutated"

	fromAdd, err := store.Add(ctx, sweet.Sweet{
		Name:        "Barfi",
		Price:       decimal.NewFromInt(200),
		Category:    "Indian",
		Ingredients: []string{"Cashew"},
	})
	require.NoError(t, err)
	fromAdd.Ingredients[0] = "Swapped"

	ingredients := []string{"Ghee"}
	fromUpdate, err := store.Update(ctx, 1, sweet.Patch{Ingredients: &ingredients})
	require.NoError(t, err)
	fromUpdate.Ingredients[0] = "Overwritten"
	ingredients[0] = "Caller Mutation"

	stored, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ghee"}, stored.Ingredients)

	barfi, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cashew"}, barfi.Ingredients)
}

func TestDecodeSeed(t *testing.T) {
	data := []byte(`[{"id":1,"name":"Gulab Jamun","price":150,"category":"Indian","stock":45,"ingredients":["Milk Solids"]}]`)

	sweets, err := DecodeSeed(data)
	require.NoError(t, err)
	require.Len(t, sweets, 1)
	assert.Equal(t, int64(1), sweets[0].ID)
	assert.True(t, sweets[0].Price.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, []string{"Milk Solids"}, sweets[0].Ingredients)
}

func TestDecodeSeed_Malformed(t *testing.T) {
	_, err := DecodeSeed([]byte(`{not json`))
	assert.Error(t, err)
}
