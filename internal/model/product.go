package model

import (
	"strings"
	"time"

	"batik-store/internal/pricing"
)

// Product represents a batik product in the catalogue.
type Product struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	Price           int64     `json:"price" db:"price"`
	DiscountPercent int       `json:"discount" db:"discount"`
	Stock           int       `json:"stock" db:"stock"`
	Category        string    `json:"category" db:"category"`
	Image           string    `json:"image" db:"image"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// DiscountedPrice is the price a shopper pays for one unit.
func (p *Product) DiscountedPrice() int64 {
	return pricing.ApplyDiscount(p.Price, p.DiscountPercent)
}

// LowStockThreshold marks products the dashboard flags for restocking.
const LowStockThreshold = 10

// Catalogue sort orders.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ProductFilter narrows a catalogue listing.
type ProductFilter struct {
	Category string
	Search   string
	Sort     string
	Limit    int
	Offset   int
}

// ProductPage is one page of a catalogue listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// ProductRequest is the admin payload for creating or replacing a product.
type ProductRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	DiscountPercent int    `json:"discount"`
	Stock           int    `json:"stock"`
	Category        string `json:"category"`
	Image           string `json:"image"`
}

// Validate checks the admin product payload.
func (r *ProductRequest) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(r.Name) == "" {
		verr.Add("name", "name is required")
	}
	if r.Price <= 0 {
		verr.Add("price", "price must be greater than zero")
	}
	if r.DiscountPercent < 0 || r.DiscountPercent > 100 {
		verr.Add("discount", "discount must be between 0 and 100")
	}
	if r.Stock < 0 {
		verr.Add("stock", "stock cannot be negative")
	}
	if strings.TrimSpace(r.Category) == "" {
		verr.Add("category", "category is required")
	}
	return verr.OrNil()
}

// ToProduct builds a product from the request.
func (r *ProductRequest) ToProduct() *Product {
	return &Product{
		Name:            strings.TrimSpace(r.Name),
		Description:     r.Description,
		Price:           r.Price,
		DiscountPercent: r.DiscountPercent,
		Stock:           r.Stock,
		Category:        strings.TrimSpace(r.Category),
		Image:           r.Image,
	}
}
