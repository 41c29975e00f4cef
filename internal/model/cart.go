package model

import "batik-store/internal/pricing"

// CartLine is a product captured into a cart. Name, price and image are
// snapshots taken when the product was added.
type CartLine struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
}

// LineSubtotal returns price × quantity.
func (l CartLine) LineSubtotal() int64 {
	return pricing.LineSubtotal(l.Price, l.Quantity)
}

// PricingLines converts cart lines into pricing input.
func PricingLines(lines []CartLine) []pricing.Line {
	out := make([]pricing.Line, len(lines))
	for i, l := range lines {
		out[i] = pricing.Line{UnitPrice: l.Price, Quantity: l.Quantity}
	}
	return out
}

// CartView is a cart together with its derived totals.
type CartView struct {
	CartID    string     `json:"cartId"`
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"itemCount"`
	pricing.Totals
}

// AddCartItemRequest is the payload for adding a product to a cart.
type AddCartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartItemRequest is the payload for setting a line's quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
