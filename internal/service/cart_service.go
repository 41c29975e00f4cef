package service

import (
	"context"
	"fmt"

	"batik-store/internal/cart"
	"batik-store/internal/model"
	"batik-store/internal/pricing"
	"batik-store/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	policy      pricing.Policy
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	policy pricing.Policy,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		policy:      policy,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) load(ctx context.Context, cartID string) (*cart.Cart, error) {
	c, err := s.cartRepo.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return c, nil
}

func (s *cartService) save(ctx context.Context, cartID string, c *cart.Cart) (*model.CartView, error) {
	if err := s.cartRepo.Save(ctx, cartID, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	view := c.View(cartID, s.policy)
	return &view, nil
}

// Get returns the cart with its totals.
func (s *cartService) Get(ctx context.Context, cartID string) (*model.CartView, error) {
	c, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	view := c.View(cartID, s.policy)
	return &view, nil
}

// AddItem adds a product, snapshotting its discounted price.
func (s *cartService) AddItem(ctx context.Context, cartID string, req *model.AddCartItemRequest) (*model.CartView, error) {
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		s.logger.Debug().Int64("product_id", req.ProductID).Msg("cannot add unknown product")
		return nil, model.ErrProductNotFound
	}

	c, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	c.AddItem(model.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.DiscountedPrice(),
		Image:     product.Image,
		Quantity:  req.Quantity,
	})

	s.logger.Debug().
		Str("cart_id", cartID).
		Int64("product_id", product.ID).
		Int("item_count", c.ItemCount()).
		Msg("item added to cart")

	return s.save(ctx, cartID, c)
}

// SetQuantity sets the absolute quantity of a line.
func (s *cartService) SetQuantity(ctx context.Context, cartID string, productID int64, quantity int) (*model.CartView, error) {
	c, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := c.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, cartID, c)
}

// RemoveItem drops a line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, cartID string, productID int64) (*model.CartView, error) {
	c, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(productID)
	return s.save(ctx, cartID, c)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, cartID string) error {
	if err := s.cartRepo.Delete(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
