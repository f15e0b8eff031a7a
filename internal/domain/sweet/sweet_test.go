package sweet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSweet() Sweet {
	return Sweet{
		Name:        "Gulab Jamun",
		Price:       decimal.NewFromInt(150),
		Category:    "Indian",
		Stock:       45,
		Ingredients: []string{"Milk Solids", "Sugar Syrup"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Sweet)
		wantField string
	}{
		{"valid", func(*Sweet) {}, ""},
		{"zero stock ok", func(s *Sweet) { s.Stock = 0 }, ""},
		{"zero price ok", func(s *Sweet) { s.Price = decimal.Zero }, ""},
		{"missing name", func(s *Sweet) { s.Name = "" }, "name"},
		{"negative price", func(s *Sweet) { s.Price = decimal.NewFromInt(-1) }, "price"},
		{"unknown category", func(s *Sweet) { s.Category = "Savoury" }, "category"},
		{"empty category", func(s *Sweet) { s.Category = "" }, "category"},
		{"negative stock", func(s *Sweet) { s.Stock = -1 }, "stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSweet()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory("indian"), "matching is case sensitive")
	assert.False(t, ValidCategory(""))
}

func TestPatchApply_ShallowMerge(t *testing.T) {
	s := validSweet()
	s.ID = 1

	name := "Kala Jamun"
	stock := 12
	patch := Patch{Name: &name, Stock: &stock}
	patch.Apply(&s)

	assert.Equal(t, "Kala Jamun", s.Name)
	assert.Equal(t, 12, s.Stock)
	// Unset fields keep their values.
	assert.Equal(t, "Indian", s.Category)
	assert.True(t, s.Price.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, []string{"Milk Solids", "Sugar Syrup"}, s.Ingredients)
}

func TestPatchApply_ReplacesIngredientsWholesale(t *testing.T) {
	s := validSweet()

	ingredients := []string{"Cashew"}
	Patch{Ingredients: &ingredients}.Apply(&s)

	assert.Equal(t, []string{"Cashew"}, s.Ingredients)
}

func TestPatchApply_Empty(t *testing.T) {
	s := validSweet()
	before := s

	Patch{}.Apply(&s)

	assert.Equal(t, before, s)
}
