package memory

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

type seedSweet struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Ingredients []string        `json:"ingredients"`
}

// DecodeSeed parses the embedded catalog seed into sweet records.
func DecodeSeed(data []byte) ([]sweet.Sweet, error) {
	var rows []seedSweet
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(err, "decode seed")
	}

	sweets := make([]sweet.Sweet, len(rows))
	for i, row := range rows {
		sweets[i] = sweet.Sweet{
			ID:          row.ID,
			Name:        row.Name,
			Price:       row.Price,
			Category:    row.Category,
			Stock:       row.Stock,
			Ingredients: row.Ingredients,
		}
	}
	return sweets, nil
}
