// Package cart implements the cart and pricing rules: line management with
// stock-capped quantities and the monetary totals derived from them.
//
// A cart holds snapshots of sweet records, not references. A line's price and
// stock may go stale after catalog mutations; checkout re-validates against
// the live catalog.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/candyhaus/sweetshop/internal/domain/sweet"
)

// Line is a sweet snapshot paired with a requested quantity.
type Line struct {
	Sweet    sweet.Sweet
	Quantity int
}

// Total returns price * quantity for the line.
func (l Line) Total() decimal.Decimal {
	return l.Sweet.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered collection of lines, uniquely keyed by sweet id.
type Cart struct {
	Lines []Line
}

// AddItem adds one unit of the sweet. When a line for the sweet already
// exists, the quantity grows by 1 only while it is below the sweet's current
// stock; at the cap the call is a silent no-op. When no line exists, a new
// line with quantity 1 is inserted without re-checking stock; the calling
// surface blocks adds for sold-out sweets.
func (c *Cart) AddItem(s sweet.Sweet) {
	for i := range c.Lines {
		if c.Lines[i].Sweet.ID == s.ID {
			if c.Lines[i].Quantity < s.Stock {
				c.Lines[i].Quantity++
			}
			return
		}
	}
	c.Lines = append(c.Lines, Line{Sweet: s, Quantity: 1})
}

// SetQuantity sets the line's quantity. A quantity of zero or less removes
// the line. A quantity above the sweet's current stock is rejected and the
// line keeps its previous value. Unknown sweet ids are ignored.
func (c *Cart) SetQuantity(s sweet.Sweet, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(s.ID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Sweet.ID == s.ID {
			if quantity <= s.Stock {
				c.Lines[i].Quantity = quantity
			}
			return
		}
	}
}

// RemoveItem deletes the line for the given sweet id, preserving the order
// of the remaining lines.
func (c *Cart) RemoveItem(sweetID int64) {
	for i := range c.Lines {
		if c.Lines[i].Sweet.ID == sweetID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Total returns the sum of line totals.
func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// ItemCount returns the sum of quantities across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// CheckoutTotal returns the cart total plus the delivery fee. The fee is
// configuration, not a pricing rule.
func (c *Cart) CheckoutTotal(deliveryFee decimal.Decimal) decimal.Decimal {
	return c.Total().Add(deliveryFee)
}
