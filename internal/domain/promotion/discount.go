package promotion

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Apply calculates the discount amount the promotion grants on the given
// subtotal. Percentage promotions take discount/100 of the subtotal; fixed
// promotions are capped at the subtotal so the remainder is never negative.
//
// Apply is a pure function: it does not touch UsesCount. Usage tracking is a
// separate, explicit operation at the settlement boundary.
func Apply(p Promotion, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch p.Kind {
	case KindPercentage:
		amount = subtotal.Mul(p.Discount).Div(hundred)
	case KindFixed:
		amount = decimal.Min(p.Discount, subtotal)
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Round(2)
}
