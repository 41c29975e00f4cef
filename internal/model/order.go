package model

import (
	"time"

	"batik-store/internal/pricing"

	"github.com/google/uuid"
)

// Payment methods accepted at checkout.
const (
	PaymentBankTransfer = "bank_transfer"
	PaymentCOD          = "cod"
)

// Order represents a placed customer order. Only Status and UpdatedAt change
// after creation.
type Order struct {
	ID            string      `json:"orderId" db:"order_id"`
	Customer      Customer    `json:"customer"`
	Items         []OrderItem `json:"items"`
	Subtotal      int64       `json:"subtotal" db:"subtotal"`
	ShippingFee   int64       `json:"shippingFee" db:"shipping_fee"`
	Total         int64       `json:"total" db:"total"`
	PaymentMethod string      `json:"paymentMethod" db:"payment_method"`
	Notes         string      `json:"notes,omitempty" db:"notes"`
	Status        Status      `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order, fixed at creation.
type OrderItem struct {
	ID           uuid.UUID `json:"-" db:"id"`
	OrderID      string    `json:"-" db:"order_id"`
	ProductID    int64     `json:"productId" db:"product_id"`
	Name         string    `json:"name" db:"product_name"`
	Image        string    `json:"image,omitempty" db:"image"`
	Price        int64     `json:"price" db:"price"`
	Quantity     int       `json:"quantity" db:"quantity"`
	LineSubtotal int64     `json:"lineSubtotal" db:"line_subtotal"`
	Position     int       `json:"-" db:"position"`
}

// OrderPricingLines converts order items into pricing input.
func OrderPricingLines(items []OrderItem) []pricing.Line {
	out := make([]pricing.Line, len(items))
	for i, it := range items {
		out[i] = pricing.Line{UnitPrice: it.Price, Quantity: it.Quantity}
	}
	return out
}

// CheckoutRequest is the checkout submission. Client totals are accepted
// for compatibility and ignored.
type CheckoutRequest struct {
	Customer      Customer   `json:"customer"`
	Notes         string     `json:"notes,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	Items         []CartLine `json:"items,omitempty"`
	Subtotal      *int64     `json:"subtotal,omitempty"`
	ShippingFee   *int64     `json:"shippingFee,omitempty"`
	Total         *int64     `json:"total,omitempty"`
}

// OrderConfirmation is returned after a successful checkout.
type OrderConfirmation struct {
	OrderID        string    `json:"orderId"`
	Total          int64     `json:"total"`
	CreatedAt      time.Time `json:"createdAt"`
	PaymentMessage string    `json:"paymentMessage,omitempty"`
	WhatsAppURL    string    `json:"whatsappUrl,omitempty"`
}

// StatusUpdateRequest is the admin payload for changing an order's status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// OrderFilter narrows an admin order listing.
type OrderFilter struct {
	Status Status
	Search string
	Limit  int
	Offset int
}

// OrderPage is one page of an admin order listing.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// DashboardStats summarises the store for the admin dashboard.
type DashboardStats struct {
	TotalProducts   int            `json:"totalProducts"`
	LowStock        int            `json:"lowStockProducts"`
	OrdersByStatus  map[Status]int `json:"ordersByStatus"`
	PendingOrders   int            `json:"pendingOrders"`
	CompletedIncome int64          `json:"completedRevenue"`
}
