// Package order implements order settlement: immutable purchase records and
// the stock decrements they drive into the catalog.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// StatusCompleted is the only order status in scope. Orders have no state
// machine: they are created settled and never change.
const StatusCompleted = "completed"

// ErrEmptyCart is returned when checkout is attempted with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// LineSnapshot captures a cart line at settlement time. Later catalog
// mutations never change a placed order.
type LineSnapshot struct {
	SweetID  int64           `json:"sweetId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Order is an append-only settled purchase. The identifier is time-derived
// and monotonically increasing under the single-writer assumption.
type Order struct {
	ID        int64
	UserID    string
	Lines     []LineSnapshot
	Total     decimal.Decimal
	Status    string
	CreatedAt time.Time
}

// Repository is the order store contract. Orders are never updated or
// deleted after creation.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
}
