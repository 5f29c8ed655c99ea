package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/cuddles47/electroshop/internal/metrics"
	"github.com/cuddles47/electroshop/internal/store"
)

// Routes wires every handler onto a mux. The metrics collector and the
// rate limiter may be nil (tests run without them); CSRF, logging, and
// security headers are layered on by the caller.
func Routes(st *store.Store, ss *sessions.CookieStore, m *metrics.ServerMetrics, rl *RateLimiter) *http.ServeMux {
	orderH := &OrderHandler{Store: st, SessionStore: ss}
	productH := &ProductHandler{Store: st, SessionStore: ss}
	authH := &AuthHandler{Store: st, SessionStore: ss}
	adminH := &AdminHandler{Store: st, SessionStore: ss}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Orders
	mux.HandleFunc("POST /orders", rl.Middleware(m.Instrument("create_order", orderH.Create)))
	mux.HandleFunc("GET /orders", m.Instrument("list_orders", orderH.List))
	mux.HandleFunc("GET /orders/{id}", m.Instrument("get_order", orderH.Get))
	mux.HandleFunc("PATCH /orders/{id}", m.Instrument("update_order", orderH.Update))
	mux.HandleFunc("DELETE /orders/{id}", m.Instrument("delete_order", orderH.Delete))

	// Products
	mux.HandleFunc("GET /products", m.Instrument("list_products", productH.List))
	mux.HandleFunc("GET /products/{id}", m.Instrument("get_product", productH.Get))
	mux.HandleFunc("POST /products", m.Instrument("create_product", productH.Create))
	mux.HandleFunc("PATCH /products/{id}", m.Instrument("update_product", productH.Update))

	// Auth
	mux.HandleFunc("POST /auth/register", rl.Middleware(m.Instrument("register", authH.Register)))
	mux.HandleFunc("POST /auth/login", rl.Middleware(m.Instrument("login", authH.Login)))
	mux.HandleFunc("POST /auth/logout", m.Instrument("logout", authH.Logout))
	mux.HandleFunc("GET /auth/session", m.Instrument("session", authH.Session))

	// Admin
	mux.HandleFunc("GET /admin/stats", m.Instrument("admin_stats", adminH.Stats))

	return mux
}
