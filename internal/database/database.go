package database

import (
	"context"
	"fmt"
	"time"

	"batik-store/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const applicationName = "batik-store"

// NewPool opens the PostgreSQL pool used by every repository and verifies
// it with a ping. Queries slower than cfg.SlowQueryMillis are logged.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName

	if cfg.SlowQueryMillis > 0 {
		poolConfig.ConnConfig.Tracer = newQueryTracer(
			time.Duration(cfg.SlowQueryMillis)*time.Millisecond,
			logger,
		)
	}

	log := logger.With().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Logger()

	log.Info().
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("opening database pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("database unreachable")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("database pool ready")
	return pool, nil
}

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// queryTracer logs failed queries and queries slower than threshold.
type queryTracer struct {
	threshold time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func newQueryTracer(threshold time.Duration, logger zerolog.Logger) *queryTracer {
	return &queryTracer{
		threshold: threshold,
		logger:    logger.With().Str("component", "sql").Logger(),
		now:       time.Now,
	}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: t.now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(qs.start)

	switch {
	case data.Err != nil:
		t.logger.Debug().Err(data.Err).Dur("elapsed", elapsed).Str("sql", qs.sql).Msg("query failed")
	case elapsed >= t.threshold:
		t.logger.Warn().
			Dur("elapsed", elapsed).
			Int64("rows", data.CommandTag.RowsAffected()).
			Str("sql", qs.sql).
			Msg("slow query")
	}
}
