package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the gateway surface. Route shapes follow the public
// API: a flat /api namespace with the cart as a singleton resource.
func NewRouter(cart *CartHandler, checkout *CheckoutHandler, products *ProductHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", products.ListProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Post("/", cart.AddItem)
			r.Post("/decrease", cart.DecreaseItem)
			r.Delete("/{productId}", cart.RemoveItem)
		})

		r.Post("/checkout", checkout.Checkout)
	})

	return r
}
