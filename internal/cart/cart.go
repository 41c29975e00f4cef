// Package cart holds the shopper's cart as an explicit value. Storage of a
// cart between requests is the job of repository.CartRepository.
package cart

import (
	"batik-store/internal/model"
	"batik-store/internal/pricing"
)

// Cart is an ordered list of lines with at most one line per product.
type Cart struct {
	Lines []model.CartLine `json:"items"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Lines: []model.CartLine{}}
}

// FromLines builds a cart from stored lines, merging duplicates.
func FromLines(lines []model.CartLine) *Cart {
	c := New()
	for _, l := range lines {
		c.AddItem(l)
	}
	return c
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem appends line or increments the quantity of the existing line for
// the same product. A quantity below 1 is treated as 1 and the merged
// quantity saturates at pricing.MaxQuantity. The snapshot of an existing
// line is kept.
func (c *Cart) AddItem(line model.CartLine) {
	line.Quantity = min(max(line.Quantity, 1), pricing.MaxQuantity)
	if i := c.index(line.ProductID); i >= 0 {
		c.Lines[i].Quantity = min(c.Lines[i].Quantity+line.Quantity, pricing.MaxQuantity)
		return
	}
	c.Lines = append(c.Lines, line)
}

// RemoveItem drops the line for productID if present.
func (c *Cart) RemoveItem(productID int64) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// SetQuantity sets the absolute quantity of a line. Quantities below 1 or
// above pricing.MaxQuantity are rejected; use RemoveItem to drop a line.
func (c *Cart) SetQuantity(productID int64, quantity int) error {
	if quantity < 1 || quantity > pricing.MaxQuantity {
		return model.ErrInvalidQuantity
	}
	i := c.index(productID)
	if i < 0 {
		return model.ErrCartItemNotFound
	}
	c.Lines[i].Quantity = quantity
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = []model.CartLine{}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Snapshot returns a copy of the lines that later cart changes cannot affect.
func (c *Cart) Snapshot() []model.CartLine {
	out := make([]model.CartLine, len(c.Lines))
	copy(out, c.Lines)
	return out
}

// Totals prices the current contents with policy.
func (c *Cart) Totals(policy pricing.Policy) pricing.Totals {
	return policy.Compute(model.PricingLines(c.Lines))
}

// View renders the cart with totals for the API.
func (c *Cart) View(id string, policy pricing.Policy) model.CartView {
	return model.CartView{
		CartID:    id,
		Items:     c.Snapshot(),
		ItemCount: c.ItemCount(),
		Totals:    c.Totals(policy),
	}
}
