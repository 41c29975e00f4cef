package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"batik-store/internal/cart"
	"batik-store/internal/events"
	"batik-store/internal/invoice"
	"batik-store/internal/model"
	"batik-store/internal/pricing"
	"batik-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderOptions configures the order workflow.
type OrderOptions struct {
	Pricing           pricing.Policy
	IDs               *OrderNumberGenerator
	StrictTransitions bool
}

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	publisher   events.Publisher
	renderer    *invoice.Renderer
	opts        OrderOptions
	now         func() time.Time
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	publisher events.Publisher,
	renderer *invoice.Renderer,
	opts OrderOptions,
	logger zerolog.Logger,
) OrderService {
	if opts.IDs == nil {
		opts.IDs = NewOrderNumberGenerator("BN")
	}
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		publisher:   publisher,
		renderer:    renderer,
		opts:        opts,
		now:         time.Now,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder creates an order from the cart lines carried in the request.
// Every line must name a product that is still in the catalogue; the prices
// are the snapshots the client captured.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.CheckoutRequest) (*model.OrderConfirmation, error) {
	if req == nil {
		return nil, model.ErrEmptyCart
	}

	order, err := s.placeOrder(ctx, req.Items, req, true)
	if err != nil {
		return nil, err
	}

	return s.renderer.Confirmation(order), nil
}

// Checkout creates an order from a stored cart and clears the cart once the
// order has committed.
func (s *orderService) Checkout(ctx context.Context, cartID string, req *model.CheckoutRequest) (*model.OrderConfirmation, error) {
	if req == nil {
		req = &model.CheckoutRequest{}
	}

	c, err := s.cartRepo.Get(ctx, cartID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	order, err := s.placeOrder(ctx, c.Snapshot(), req, false)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Delete(ctx, cartID); err != nil {
		s.logger.Warn().Err(err).
			Str("cart_id", cartID).
			Str("order_id", order.ID).
			Msg("order placed but cart could not be cleared")
	}

	return s.renderer.Confirmation(order), nil
}

// placeOrder validates, snapshots, prices and persists an order. Nothing is
// written unless validation passes, and the header and items commit together.
// Lines for the same product are merged into one order item.
func (s *orderService) placeOrder(ctx context.Context, lines []model.CartLine, req *model.CheckoutRequest, checkCatalog bool) (*model.Order, error) {
	if len(lines) == 0 {
		s.logger.Debug().Msg("checkout rejected: empty cart")
		return nil, model.ErrEmptyCart
	}

	customer := req.Customer
	customer.Normalize()
	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = model.PaymentBankTransfer
	}

	if err := validateCheckout(customer, paymentMethod, lines, s.opts.Pricing.ShippingFee); err != nil {
		s.logger.Warn().Err(err).Msg("checkout validation failed")
		return nil, err
	}

	lines = cart.FromLines(lines).Snapshot()

	if checkCatalog {
		if err := s.requireProducts(ctx, lines); err != nil {
			return nil, err
		}
	}

	if req.Total != nil || req.Subtotal != nil || req.ShippingFee != nil {
		s.logger.Debug().Msg("ignoring client-supplied totals")
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:            s.opts.IDs.Next(),
		Customer:      customer,
		PaymentMethod: paymentMethod,
		Notes:         strings.TrimSpace(req.Notes),
		Status:        model.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	order.Items = make([]model.OrderItem, len(lines))
	for i, l := range lines {
		order.Items[i] = model.OrderItem{
			ID:           uuid.New(),
			OrderID:      order.ID,
			ProductID:    l.ProductID,
			Name:         l.Name,
			Image:        l.Image,
			Price:        l.Price,
			Quantity:     l.Quantity,
			LineSubtotal: l.LineSubtotal(),
			Position:     i,
		}
	}

	totals := s.opts.Pricing.Compute(model.OrderPricingLines(order.Items))
	order.Subtotal = totals.Subtotal
	order.ShippingFee = totals.ShippingFee
	order.Total = totals.Total

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Int("item_count", len(order.Items)).
		Int64("total", order.Total).
		Msg("order created successfully")

	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish order created event")
	}

	return order, nil
}

// requireProducts fails with ErrProductNotFound when a line names a product
// that is not in the catalogue.
func (s *orderService) requireProducts(ctx context.Context, lines []model.CartLine) error {
	ids := make([]int64, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to look up ordered products")
		return fmt.Errorf("failed to get products: %w", err)
	}

	known := make(map[int64]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			s.logger.Debug().Int64("product_id", id).Msg("checkout rejected: unknown product")
			return model.ErrProductNotFound
		}
	}
	return nil
}

// persist writes the order header and items in one transaction.
func (s *orderService) persist(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return &model.PersistenceError{Op: "begin order transaction", Err: err}
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Str("order_id", order.ID).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to create order")
		return &model.PersistenceError{Op: "create order", Err: err}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return &model.PersistenceError{Op: "create order items", Err: err}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to commit transaction")
		return &model.PersistenceError{Op: "commit order", Err: err}
	}

	return nil
}

// validateCheckout reports every invalid customer field and line. Quantities
// are bounded per product after merging, and the subtotal plus shippingFee
// must fit in an int64.
func validateCheckout(customer model.Customer, paymentMethod string, lines []model.CartLine, shippingFee int64) error {
	verr := &model.ValidationError{}
	var cerr *model.ValidationError
	if errors.As(customer.Validate(), &cerr) {
		verr.Fields = append(verr.Fields, cerr.Fields...)
	}

	if paymentMethod != model.PaymentBankTransfer && paymentMethod != model.PaymentCOD {
		verr.Add("paymentMethod", "payment method must be bank_transfer or cod")
	}

	var subtotal int64
	amountsOK := true
	perProduct := make(map[int64]int, len(lines))

	for i, l := range lines {
		if l.ProductID <= 0 {
			verr.Add(fmt.Sprintf("items[%d].productId", i), "product ID is required")
		}

		quantityOK := false
		switch {
		case l.Quantity < 1:
			verr.Add(fmt.Sprintf("items[%d].quantity", i), "quantity must be at least 1")
		case l.Quantity > pricing.MaxQuantity || perProduct[l.ProductID]+l.Quantity > pricing.MaxQuantity:
			verr.Add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("quantity must be at most %d", pricing.MaxQuantity))
		default:
			perProduct[l.ProductID] += l.Quantity
			quantityOK = true
		}

		if l.Price < 0 {
			verr.Add(fmt.Sprintf("items[%d].price", i), "price cannot be negative")
		} else if quantityOK && amountsOK {
			lineSubtotal, ok := pricing.CheckedLineSubtotal(l.Price, l.Quantity)
			if ok {
				subtotal, ok = pricing.CheckedAdd(subtotal, lineSubtotal)
			}
			if ok {
				_, ok = pricing.CheckedAdd(subtotal, shippingFee)
			}
			if !ok {
				verr.Add(fmt.Sprintf("items[%d].price", i), "order total is too large")
				amountsOK = false
			}
		}
		if strings.TrimSpace(l.Name) == "" {
			verr.Add(fmt.Sprintf("items[%d].name", i), "name is required")
		}
	}

	return verr.OrNil()
}

// GetByID retrieves an order with its items.
func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// List returns one page of orders for the admin.
func (s *orderService) List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, model.ErrInvalidStatus
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset, 20)

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	return &model.OrderPage{Orders: orders, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// SetStatus changes an order's status. Any transition is accepted unless
// strict transitions are enabled.
func (s *orderService) SetStatus(ctx context.Context, id string, status string) (*model.Order, error) {
	next, err := model.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := order.Status

	if s.opts.StrictTransitions && !model.CanTransition(prev, next) {
		s.logger.Warn().
			Str("order_id", id).
			Str("from", string(prev)).
			Str("to", string(next)).
			Bool("from_terminal", prev.IsTerminal()).
			Msg("status transition rejected")
		return nil, model.ErrInvalidStatusTransition
	}

	now := s.now().UTC()
	if err := s.orderRepo.UpdateStatus(ctx, id, next, now); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = next
	order.UpdatedAt = now

	s.logger.Info().
		Str("order_id", id).
		Str("from", string(prev)).
		Str("to", string(next)).
		Msg("order status updated")

	if prev != next {
		if err := s.publisher.PublishOrderStatusChanged(ctx, id, prev, next); err != nil {
			s.logger.Warn().Err(err).Str("order_id", id).Msg("failed to publish status changed event")
		}
	}

	return order, nil
}

// Invoice renders the invoice of an order.
func (s *orderService) Invoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(order), nil
}

// clampPage applies paging defaults and bounds.
func clampPage(limit, offset, defaultLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
