package repository

import (
	"context"
	"time"

	"batik-store/internal/cart"
	"batik-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products matching the filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// Count returns how many products match the filter, ignoring paging.
	Count(ctx context.Context, filter model.ProductFilter) (int, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// Create inserts a product and fills in its ID and timestamps.
	Create(ctx context.Context, p *model.Product) error

	// Update replaces a product's editable fields.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error

	// Upsert inserts or replaces products keyed by ID.
	Upsert(ctx context.Context, products []model.Product) (int, error)

	// CountLowStock counts products whose stock is below threshold.
	CountLowStock(ctx context.Context, threshold int) (int, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts an order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order line items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// List retrieves order headers matching the filter, newest first.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// Count returns how many orders match the filter, ignoring paging.
	Count(ctx context.Context, filter model.OrderFilter) (int, error)

	// UpdateStatus sets an order's status. Returns model.ErrOrderNotFound
	// when no order has the given ID.
	UpdateStatus(ctx context.Context, id string, status model.Status, at time.Time) error

	// CountByStatus returns the number of orders in each status.
	CountByStatus(ctx context.Context) (map[model.Status]int, error)

	// SumTotals returns the summed order totals for a status.
	SumTotals(ctx context.Context, status model.Status) (int64, error)
}

// CartRepository stores carts between requests.
type CartRepository interface {
	// Get returns the cart for cartID, or an empty cart when none is stored.
	Get(ctx context.Context, cartID string) (*cart.Cart, error)

	// Save stores the cart under cartID.
	Save(ctx context.Context, cartID string, c *cart.Cart) error

	// Delete removes the stored cart.
	Delete(ctx context.Context, cartID string) error
}
