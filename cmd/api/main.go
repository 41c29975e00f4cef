package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"batik-store/internal/config"
	"batik-store/internal/database"
	"batik-store/internal/events"
	"batik-store/internal/handler"
	"batik-store/internal/invoice"
	"batik-store/internal/pricing"
	"batik-store/internal/repository"
	"batik-store/internal/router"
	"batik-store/internal/seed"
	"batik-store/internal/service"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting batik-store API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	cartRepo, closeCarts, err := newCartRepository(ctx, cfg.Cart, logger)
	if err != nil {
		return err
	}
	defer closeCarts()

	if cfg.Seed.Enabled {
		if err := seedCatalog(ctx, cfg, productRepo, logger); err != nil {
			return err
		}
	}

	publisher, err := newPublisher(cfg.Events, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	policy := pricing.Policy{ShippingFee: cfg.Orders.ShippingFee}
	renderer := invoice.NewRenderer(invoice.BankDetails{
		BankName:       cfg.Payment.BankName,
		AccountNumber:  cfg.Payment.AccountNumber,
		AccountHolder:  cfg.Payment.AccountHolder,
		WhatsAppNumber: cfg.Payment.WhatsAppNumber,
	})

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, policy, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, cartRepo, publisher, renderer, service.OrderOptions{
		Pricing:           policy,
		IDs:               service.NewOrderNumberGenerator(cfg.Orders.IDPrefix),
		StrictTransitions: cfg.Orders.StrictTransitions,
	}, logger)
	statsService := service.NewStatsService(productRepo, orderRepo)

	// Initialize HTTP handlers and router
	mux := router.New(
		handler.NewProductHandler(productService, logger),
		handler.NewCartHandler(cartService, orderService, logger),
		handler.NewOrderHandler(orderService, logger),
		handler.NewAdminHandler(statsService, logger),
		pool,
		cfg.Auth.AdminAPIKey,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCartRepository selects the cart store. The returned func releases it.
func newCartRepository(ctx context.Context, cfg config.CartConfig, logger zerolog.Logger) (repository.CartRepository, func(), error) {
	if cfg.Store != "redis" {
		logger.Info().Msg("using in-memory cart store")
		return repository.NewMemoryCartRepository(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis cart store")
	ttl := time.Duration(cfg.TTL) * time.Second
	return repository.NewRedisCartRepository(rdb, ttl, logger), func() { _ = rdb.Close() }, nil
}

// newPublisher selects the order event publisher.
func newPublisher(cfg config.EventsConfig, logger zerolog.Logger) (events.Publisher, error) {
	switch cfg.Driver {
	case "kafka":
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing order events to kafka")
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger), nil
	case "rabbitmq":
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		pub, err := events.NewRabbitPublisher(conn, cfg.RabbitMQExchange, logger)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		logger.Info().Str("exchange", cfg.RabbitMQExchange).Msg("publishing order events to rabbitmq")
		return &connPublisher{Publisher: pub, conn: conn}, nil
	default:
		return events.NewNopPublisher(), nil
	}
}

// connPublisher closes the AMQP connection along with its channel.
type connPublisher struct {
	events.Publisher
	conn *amqp.Connection
}

func (p *connPublisher) Close() error {
	err := p.Publisher.Close()
	if cerr := p.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

// seedCatalog loads the configured catalogue files, S3 first when enabled.
func seedCatalog(ctx context.Context, cfg *config.Config, products seed.Upserter, logger zerolog.Logger) error {
	fileLoader := seed.NewFileLoader(logger)
	var s3Loader seed.Loader

	if cfg.S3.Enabled {
		l, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	}

	loader := seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	if _, err := seed.NewSeeder(loader, products, cfg.Seed.Files, logger).Run(ctx); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}
	return nil
}
