package domain

import "github.com/shopspring/decimal"

// coerce normalizes an optional operand for money arithmetic:
// missing or negative values become zero so totals stay renderable.
func coerce(d *decimal.Decimal) decimal.Decimal {
	if d == nil || d.IsNegative() {
		return decimal.Zero
	}

	return *d
}

// ItemAmount computes the printable amount for a single line item.
// Manual mode returns the entered amount (zero when absent); computed mode
// returns quantity × rate with missing operands treated as zero.
func ItemAmount(li LineItem) decimal.Decimal {
	if li.Mode() == ModeManual {
		return coerce(li.Amount)
	}

	return coerce(li.Quantity).Mul(coerce(li.Rate))
}

// Total sums the item amounts in item order.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(ItemAmount(li))
	}

	return total
}
