package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"batik-store/internal/config"
	"batik-store/internal/database"
	"batik-store/internal/events"
	"batik-store/internal/handler"
	"batik-store/internal/invoice"
	"batik-store/internal/model"
	"batik-store/internal/pricing"
	"batik-store/internal/repository"
	"batik-store/internal/router"
	"batik-store/internal/seed"
	"batik-store/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAPIKey = "integration-api-key"

// setupTestDB starts a PostgreSQL container, migrates it and opens a pool
// through the same constructor the server uses.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("batik"),
		postgres.WithUsername("batik"),
		postgres.WithPassword("batik"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "batik",
		Password:        "batik",
		Database:        "batik",
		MaxConnections:  5,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}

	require.NoError(t, database.Migrate(cfg.ConnectionString(), zerolog.Nop()))

	pool, err := database.NewPool(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// seedCatalog writes a gzipped catalogue file and runs the seeder over it.
func seedCatalog(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, seed.EncodeCatalog(f, products))
	require.NoError(t, f.Close())

	logger := zerolog.Nop()
	seeder := seed.NewSeeder(
		seed.NewFileLoader(logger),
		repository.NewProductRepository(pool, logger),
		[]string{path},
		logger,
	)
	n, err := seeder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(products), n)
}

func catalog() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Batik Parang Rusak", Price: 250000, Stock: 10, Category: "Klasik", Description: "Motif parang dari Yogyakarta"},
		{ID: 2, Name: "Batik Mega Mendung", Price: 300000, DiscountPercent: 10, Stock: 8, Category: "Pesisir", Description: "Awan khas Cirebon"},
		{ID: 3, Name: "Batik Kawung", Price: 225000, Stock: 3, Category: "Klasik"},
	}
}

// setupTestServer wires the full stack against the container database.
func setupTestServer(t *testing.T) (*httptest.Server, *pgxpool.Pool) {
	t.Helper()

	pool := setupTestDB(t)
	seedCatalog(t, pool, catalog())

	logger := zerolog.Nop()
	policy := pricing.DefaultPolicy()

	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	cartRepo := repository.NewMemoryCartRepository()

	renderer := invoice.NewRenderer(invoice.BankDetails{
		BankName:       "BCA",
		AccountNumber:  "1234567890",
		AccountHolder:  "Batik Nusantara",
		WhatsAppNumber: "6281234567890",
	})

	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, policy, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, cartRepo, events.NewNopPublisher(), renderer, service.OrderOptions{
		Pricing: policy,
		IDs:     service.NewOrderNumberGenerator("BN"),
	}, logger)
	statsService := service.NewStatsService(productRepo, orderRepo)

	mux := router.New(
		handler.NewProductHandler(productService, logger),
		handler.NewCartHandler(cartService, orderService, logger),
		handler.NewOrderHandler(orderService, logger),
		handler.NewAdminHandler(statsService, logger),
		pool,
		testAPIKey,
		logger,
	)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, pool
}
