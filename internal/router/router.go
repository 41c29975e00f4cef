package router

import (
	"net/http"
	"time"

	"batik-store/internal/handler"
	"batik-store/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// Admin routes require the X-API-Key header; shopper routes are public.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	adminHandler *handler.AdminHandler,
	db handler.Pinger,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Order: RequestID -> RealIP -> Recovery -> Logging -> CORS
	r.Use(chimw.RequestID, chimw.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(chimw.Timeout(15 * time.Second))

	r.Get("/health", handler.Health(db, logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.List)
		r.Get("/products/{id}", productHandler.GetByID)

		r.Route("/carts/{cartId}", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Delete("/", cartHandler.Clear)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.SetQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Post("/orders", orderHandler.Create)
		r.Get("/orders/{orderId}", orderHandler.GetByID)
		r.Get("/orders/{orderId}/invoice", orderHandler.Invoice)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(apiKey, logger))

			r.Post("/products", productHandler.Create)
			r.Put("/products/{id}", productHandler.Update)
			r.Delete("/products/{id}", productHandler.Delete)

			r.Get("/orders", orderHandler.List)
			r.Get("/orders/{orderId}", orderHandler.GetByID)
			r.Patch("/orders/{orderId}/status", orderHandler.SetStatus)

			r.Get("/stats", adminHandler.Stats)
		})
	})

	return r
}
