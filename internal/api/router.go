package api

import (
	"net/http"

	"github.com/example/grocery-storefront/internal/api/middleware"
	"github.com/example/grocery-storefront/internal/auth"
)

type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	Tokens       *auth.Tokens
}

// NewRouter wires the storefront's endpoints. The cart endpoints work
// for anonymous sessions; placing and listing orders require a login.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(cfg.Tokens)

	// Cart
	mux.HandleFunc("/api/cart/count", methodOnly(http.MethodGet, cfg.Handlers.CartCount))
	mux.HandleFunc("/add_to_cart", methodOnly(http.MethodPost, cfg.Handlers.AddToCart))
	mux.HandleFunc("/update_cart", methodOnly(http.MethodPost, cfg.Handlers.UpdateCart))
	mux.HandleFunc("/remove_from_cart", methodOnly(http.MethodPost, cfg.Handlers.RemoveFromCart))
	mux.HandleFunc("/clear_cart", methodOnly(http.MethodPost, cfg.Handlers.ClearCart))

	// Orders
	mux.Handle("/place_order", requireAuth(methodOnly(http.MethodPost, cfg.Handlers.PlaceOrder)))
	mux.Handle("/api/orders", requireAuth(methodOnly(http.MethodGet, cfg.Handlers.Orders)))

	// Catalog
	mux.HandleFunc("/api/products", methodOnly(http.MethodGet, cfg.Handlers.Products))

	// Auth
	mux.HandleFunc("/api/auth/register", methodOnly(http.MethodPost, cfg.AuthHandlers.Register))
	mux.HandleFunc("/api/auth/login", methodOnly(http.MethodPost, cfg.AuthHandlers.Login))
	mux.HandleFunc("/api/auth/refresh", methodOnly(http.MethodPost, cfg.AuthHandlers.Refresh))

	return middleware.WithLogging(mux)
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}
