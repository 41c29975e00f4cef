package repository

import (
	"context"
	"sync"

	"batik-store/internal/cart"
	"batik-store/internal/model"
)

// memoryCartRepository keeps carts in process memory.
type memoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string][]model.CartLine
}

// NewMemoryCartRepository creates an in-process cart store.
func NewMemoryCartRepository() CartRepository {
	return &memoryCartRepository{carts: make(map[string][]model.CartLine)}
}

func (r *memoryCartRepository) Get(_ context.Context, cartID string) (*cart.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines, ok := r.carts[cartID]
	if !ok {
		return cart.New(), nil
	}
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return &cart.Cart{Lines: out}, nil
}

func (r *memoryCartRepository) Save(_ context.Context, cartID string, c *cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[cartID] = c.Snapshot()
	return nil
}

func (r *memoryCartRepository) Delete(_ context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, cartID)
	return nil
}
