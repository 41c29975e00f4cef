package handler

import (
	"net/http"

	"batik-store/internal/model"
	"batik-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles server-side cart requests and cart checkout.
type CartHandler struct {
	carts  service.CartService
	orders service.OrderService
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, orders service.OrderService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		orders: orders,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/carts/{cartId}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Get(r.Context(), chi.URLParam(r, "cartId"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /api/carts/{cartId}/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.AddCartItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.ProductID <= 0 {
		writeServiceError(w, r, &model.ValidationError{Fields: []model.FieldError{
			{Field: "productId", Message: "product ID is required"},
		}}, h.logger)
		return
	}

	view, err := h.carts.AddItem(r.Context(), chi.URLParam(r, "cartId"), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetQuantity handles PUT /api/carts/{cartId}/items/{productId}.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := int64Param(r, "productId")
	if !ok {
		writeError(w, r, http.StatusNotFound, model.ErrCodeCartItemNotFound, model.ErrCartItemNotFound.Message, h.logger)
		return
	}

	var req model.UpdateCartItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	view, err := h.carts.SetQuantity(r.Context(), chi.URLParam(r, "cartId"), productID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/carts/{cartId}/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := int64Param(r, "productId")
	if !ok {
		writeError(w, r, http.StatusNotFound, model.ErrCodeCartItemNotFound, model.ErrCartItemNotFound.Message, h.logger)
		return
	}

	view, err := h.carts.RemoveItem(r.Context(), chi.URLParam(r, "cartId"), productID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Clear handles DELETE /api/carts/{cartId}.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), chi.URLParam(r, "cartId")); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/carts/{cartId}/checkout.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	conf, err := h.orders.Checkout(r.Context(), chi.URLParam(r, "cartId"), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}
