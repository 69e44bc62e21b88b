package main

import (
	"net/http"

	"github.com/unihub/unidrop/auth"
	"github.com/unihub/unidrop/internal/policy"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *policy.RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth.Middleware(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	hh := a.routerCfg.HealthHandler
	ah := a.routerCfg.AuthHandler
	sh := a.routerCfg.SettingsHandler
	hub := a.routerCfg.HubHandler
	sf := a.routerCfg.StorefrontHandler

	a.mux.HandleFunc("GET /health", hh.Live)
	a.mux.HandleFunc("GET /healthz", hh.Ready)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)

	a.mux.HandleFunc("GET /api/settings", sh.Public)
	a.mux.HandleFunc("GET /api/hubs", hub.Active)
	a.mux.HandleFunc("GET /api/storefront/products", sf.Products)
	a.mux.HandleFunc("GET /api/storefront/products/{id}", sf.Product)
	a.mux.HandleFunc("POST /api/storefront/search", sf.Search)
	a.mux.HandleFunc("POST /api/storefront/recommendations", sf.Recommendations)

	// ─────────────────────────────────────────────────────────────────────────
	// Scout routes (identified by the scout cookie, not the admin session)
	// ─────────────────────────────────────────────────────────────────────────
	if sc := a.routerCfg.ScoutHandler; sc != nil {
		a.mux.HandleFunc("POST /api/scout/register", sc.Register)
		a.mux.HandleFunc("GET /api/scout/me", sc.Me)
		a.mux.HandleFunc("POST /api/scout/quote", sc.Quote)
		a.mux.HandleFunc("POST /api/scout/pitches", sc.Pitch)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Admin routes (require a session)
	// ─────────────────────────────────────────────────────────────────────────
	ph := a.routerCfg.ProductHandler
	oh := a.routerCfg.OrderHandler

	a.admin("GET /api/admin/me", ah.Me)
	a.admin("GET /api/admin/dashboard", oh.Dashboard)

	a.admin("GET /api/admin/products", ph.List)
	a.admin("POST /api/admin/products", ph.Create)
	a.admin("GET /api/admin/products/{id}", ph.View)
	a.admin("POST /api/admin/products/{id}/approve", ph.Approve)
	a.admin("DELETE /api/admin/products/{id}", ph.Delete)
	a.admin("POST /api/admin/products/{id}/copy", ph.Copy)
	a.admin("POST /api/admin/products/{id}/pricing-advice", ph.PricingAdvice)
	a.admin("POST /api/admin/pricing/quote", ph.Quote)

	a.admin("GET /api/admin/orders", oh.List)
	a.admin("POST /api/admin/orders", oh.Create)
	a.admin("GET /api/admin/orders/insights", oh.Insights)
	a.admin("POST /api/admin/orders/{id}/advance", oh.Advance)
	a.admin("POST /api/admin/orders/{id}/cancel", oh.Cancel)

	a.admin("GET /api/admin/hubs", hub.List)
	a.admin("POST /api/admin/hubs", hub.Create)
	a.admin("POST /api/admin/hubs/{id}/active", hub.SetActive)
	a.admin("GET /api/admin/hubs/{id}/partners", hub.Partners)
	a.admin("POST /api/admin/hubs/{id}/partners", hub.AddPartner)
	a.admin("GET /api/admin/hubs/{id}/vendors", hub.Vendors)
	a.admin("POST /api/admin/hubs/{id}/vendors", hub.AddVendor)

	a.admin("GET /api/admin/settings", sh.Get)
	a.admin("PUT /api/admin/settings", sh.Update)
}

// admin registers a route behind auth.RequireAuth.
func (a *App) admin(pattern string, h http.HandlerFunc) {
	a.mux.Handle(pattern, auth.RequireAuth(h))
}
