package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"batik-store/internal/model"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(id string) (*model.Order, []model.OrderItem) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	order := &model.Order{
		ID: id,
		Customer: model.Customer{
			Name:       "Budi Santoso",
			Email:      "budi@example.com",
			Phone:      "081234567890",
			Address:    "Jl. Sudirman 1",
			City:       "Jakarta",
			PostalCode: "10220",
		},
		Subtotal:      550000,
		ShippingFee:   20000,
		Total:         570000,
		PaymentMethod: model.PaymentBankTransfer,
		Status:        model.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: id, ProductID: 1, Name: "Batik Parang", Price: 250000, Quantity: 1, LineSubtotal: 250000, Position: 0},
		{ID: uuid.New(), OrderID: id, ProductID: 2, Name: "Batik Mega Mendung", Price: 300000, Quantity: 1, LineSubtotal: 300000, Position: 1},
	}
	return order, items
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order, items := testOrder("BN-20260101000000-0001ABCDEF")

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, order.Customer, got.Customer)
	assert.Equal(t, order.Total, got.Total)
	assert.Equal(t, model.StatusPending, got.Status)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Batik Parang", got.Items[0].Name)
	assert.Equal(t, int64(300000), got.Items[1].LineSubtotal)

	missing, err := repo.GetByID(ctx, "BN-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_RollbackLeavesNothing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order, items := testOrder("BN-ROLLBACK")
	// Quantity 0 violates the order_items check constraint.
	items[1].Quantity = 0
	items[1].LineSubtotal = 0

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.Error(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Rollback(ctx))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var itemRows int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_items WHERE order_id = $1", order.ID).Scan(&itemRows))
	assert.Zero(t, itemRows)
}

func TestOrderRepository_ListAndStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	for _, id := range []string{"BN-A", "BN-B", "BN-C"} {
		order, items := testOrder(id)
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
		require.NoError(t, tx.Commit(ctx))
	}

	require.NoError(t, repo.UpdateStatus(ctx, "BN-B", model.StatusCompleted, time.Now()))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "no-such-id", model.StatusCompleted, time.Now()), model.ErrOrderNotFound)

	got, err := repo.GetByID(ctx, "BN-B")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	pending, err := repo.List(ctx, model.OrderFilter{Status: model.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	total, err := repo.Count(ctx, model.OrderFilter{Search: "bn-"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.StatusPending])
	assert.Equal(t, 1, counts[model.StatusCompleted])
	assert.Equal(t, 0, counts[model.StatusCancelled])

	revenue, err := repo.SumTotals(ctx, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(570000), revenue)
}

func TestOrderRepository_CreateOrderItems_StopsOnFirstFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock, zerolog.Nop())
	ctx := context.Background()
	order, items := testOrder("BN-MOCK")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.Customer.Name, order.Customer.Email, order.Customer.Phone,
			order.Customer.Address, order.Customer.City, order.Customer.PostalCode,
			order.Subtotal, order.ShippingFee, order.Total, order.PaymentMethod, order.Notes,
			"pending", order.CreatedAt, order.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(pgxmock.AnyArg(), order.ID, int64(1), "Batik Parang", "", int64(250000), 1, int64(250000), 0).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))

	err = repo.CreateOrderItems(ctx, tx, items)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create order item")

	require.NoError(t, tx.Rollback(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock, zerolog.Nop())

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("no-such-id", "completed", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), "no-such-id", model.StatusCompleted, time.Now())
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_BeginTx_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepository(mock, zerolog.Nop())
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	tx, err := repo.BeginTx(context.Background())
	assert.Nil(t, tx)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}
