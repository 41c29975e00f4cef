package service

import (
	"context"

	"batik-store/internal/invoice"
	"batik-store/internal/model"
)

// ProductService defines catalogue browsing and admin product management.
type ProductService interface {
	// List returns one page of the catalogue.
	List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create adds a product to the catalogue.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces a product's editable fields.
	Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product from the catalogue.
	Delete(ctx context.Context, id int64) error
}

// CartService defines operations on server-side carts.
type CartService interface {
	// Get returns the cart with its totals.
	Get(ctx context.Context, cartID string) (*model.CartView, error)

	// AddItem adds a product, capturing its current name, price and image.
	AddItem(ctx context.Context, cartID string, req *model.AddCartItemRequest) (*model.CartView, error)

	// SetQuantity sets the absolute quantity of a line.
	SetQuantity(ctx context.Context, cartID string, productID int64, quantity int) (*model.CartView, error)

	// RemoveItem drops a line from the cart.
	RemoveItem(ctx context.Context, cartID string, productID int64) (*model.CartView, error)

	// Clear empties the cart.
	Clear(ctx context.Context, cartID string) error
}

// OrderService defines the order workflow and status management.
type OrderService interface {
	// PlaceOrder creates an order from the cart lines carried in the request.
	PlaceOrder(ctx context.Context, req *model.CheckoutRequest) (*model.OrderConfirmation, error)

	// Checkout creates an order from a stored cart and clears the cart on success.
	Checkout(ctx context.Context, cartID string, req *model.CheckoutRequest) (*model.OrderConfirmation, error)

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// List returns one page of orders for the admin.
	List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error)

	// SetStatus changes an order's status.
	SetStatus(ctx context.Context, id string, status string) (*model.Order, error)

	// Invoice renders the invoice of an order.
	Invoice(ctx context.Context, id string) (*invoice.Invoice, error)
}

// StatsService defines the admin dashboard summary.
type StatsService interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}
