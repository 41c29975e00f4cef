package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"batik-store/internal/cart"
	"batik-store/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// KeyCart is the Redis key holding a cart's JSON-encoded lines.
const KeyCart = "cart:%s"

// redisCartRepository stores carts in Redis with a sliding TTL.
type redisCartRepository struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCartRepository creates a Redis-backed cart store. A zero ttl keeps
// carts until they are deleted.
func NewRedisCartRepository(rdb redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) CartRepository {
	return &redisCartRepository{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func (r *redisCartRepository) Get(ctx context.Context, cartID string) (*cart.Cart, error) {
	raw, err := r.rdb.Get(ctx, fmt.Sprintf(KeyCart, cartID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.New(), nil
		}
		r.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var lines []model.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		r.logger.Warn().Err(err).Str("cart_id", cartID).Msg("discarding unreadable cart")
		return cart.New(), nil
	}
	return cart.FromLines(lines), nil
}

func (r *redisCartRepository) Save(ctx context.Context, cartID string, c *cart.Cart) error {
	raw, err := json.Marshal(c.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := r.rdb.Set(ctx, fmt.Sprintf(KeyCart, cartID), raw, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *redisCartRepository) Delete(ctx context.Context, cartID string) error {
	if err := r.rdb.Del(ctx, fmt.Sprintf(KeyCart, cartID)).Err(); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
