// Package pricing computes cart and order totals. All amounts are integer
// counts of the smallest currency unit (rupiah); no floating point is used.
package pricing

import "math"

// MaxQuantity is the largest quantity one line may carry. It matches the
// INTEGER quantity column of order_items.
const MaxQuantity = math.MaxInt32

// DefaultShippingFee is the flat shipping fee charged for any non-empty cart.
const DefaultShippingFee int64 = 20000

// Line is the minimal view of a cart or order line needed for pricing.
type Line struct {
	UnitPrice int64
	Quantity  int
}

// Totals holds the derived money values of a cart or order.
type Totals struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shippingFee"`
	Total       int64 `json:"total"`
}

// Policy carries the configurable inputs of the totals computation.
type Policy struct {
	ShippingFee int64
}

// DefaultPolicy returns the policy with the standard flat shipping fee.
func DefaultPolicy() Policy {
	return Policy{ShippingFee: DefaultShippingFee}
}

// Compute returns subtotal, shipping and total for the given lines.
// An empty set of lines yields all-zero totals.
func (p Policy) Compute(lines []Line) Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += LineSubtotal(l.UnitPrice, l.Quantity)
	}

	var shipping int64
	if len(lines) > 0 {
		shipping = p.ShippingFee
	}

	return Totals{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Total:       subtotal + shipping,
	}
}

// ComputeCartTotals computes totals with the default policy.
func ComputeCartTotals(lines []Line) Totals {
	return DefaultPolicy().Compute(lines)
}

// LineSubtotal returns unitPrice × quantity.
func LineSubtotal(unitPrice int64, quantity int) int64 {
	return unitPrice * int64(quantity)
}

// CheckedLineSubtotal returns unitPrice × quantity for non-negative inputs and
// reports false when the product does not fit in an int64.
func CheckedLineSubtotal(unitPrice int64, quantity int) (int64, bool) {
	if unitPrice < 0 || quantity < 0 {
		return 0, false
	}
	if quantity > 0 && unitPrice > math.MaxInt64/int64(quantity) {
		return 0, false
	}
	return unitPrice * int64(quantity), true
}

// CheckedAdd returns a + b for non-negative amounts and reports false on overflow.
func CheckedAdd(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// ApplyDiscount returns unitPrice reduced by discountPercent, truncated toward
// zero. Percentages outside 0..100 are clamped.
func ApplyDiscount(unitPrice int64, discountPercent int) int64 {
	if discountPercent <= 0 {
		return unitPrice
	}
	if discountPercent > 100 {
		discountPercent = 100
	}
	return unitPrice * int64(100-discountPercent) / 100
}
