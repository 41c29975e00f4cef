package repository

import (
	"context"
	"testing"
	"time"

	"batik-store/internal/database"
	"batik-store/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL testcontainer, applies the embedded
// migrations and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr, zerolog.Nop()))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedProducts inserts products with fixed IDs.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	n, err := NewProductRepository(pool, zerolog.Nop()).Upsert(context.Background(), products)
	require.NoError(t, err)
	require.Equal(t, len(products), n)
}

func sampleProducts() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Batik Parang", Price: 250000, Stock: 10, Category: "Klasik", Description: "Motif parang klasik"},
		{ID: 2, Name: "Batik Mega Mendung", Price: 300000, DiscountPercent: 10, Stock: 8, Category: "Pesisir", Description: "Awan Cirebon"},
		{ID: 3, Name: "Batik Sekar Jagad", Price: 275000, Stock: 12, Category: "Klasik"},
		{ID: 4, Name: "Batik Kawung", Price: 225000, Stock: 15, Category: "Klasik"},
		{ID: 5, Name: "Batik Sogan", Price: 350000, DiscountPercent: 10, Stock: 5, Category: "Modern"},
	}
}
