package policy

import (
	"log/slog"

	"github.com/unihub/unidrop/internal/ai"
	"github.com/unihub/unidrop/internal/handlers"
	"github.com/unihub/unidrop/internal/messaging"
	"github.com/unihub/unidrop/internal/notify"
	"github.com/unihub/unidrop/internal/scout"
	"github.com/unihub/unidrop/internal/services"
	"github.com/unihub/unidrop/internal/store"
)

// Deps are the adapters the application is assembled from. Nil adapters
// fall back to their no-op or disabled variant.
type Deps struct {
	Store     store.Store
	Gateway   ai.Gateway
	Publisher messaging.Publisher
	Notifier  notify.Notifier
	Scouts    scout.IdentityStore
	Logger    *slog.Logger
}

// RouterConfig holds configured services and handlers for the application.
type RouterConfig struct {
	// Services
	Settings  *services.SettingsService
	Catalog   *services.CatalogService
	Orders    *services.OrderService
	Directory *services.DirectoryService
	Assistant *services.Assistant

	// Public handlers
	AuthHandler       *handlers.AuthHandler
	HealthHandler     *handlers.HealthHandler
	StorefrontHandler *handlers.StorefrontHandler
	ScoutHandler      *handlers.ScoutHandler

	// Admin and shared handlers
	SettingsHandler *handlers.SettingsHandler
	ProductHandler  *handlers.ProductHandler
	OrderHandler    *handlers.OrderHandler
	HubHandler      *handlers.HubHandler
}

// NewRouterConfig wires services and handlers around deps.Store.
func NewRouterConfig(deps Deps) *RouterConfig {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Gateway == nil {
		deps.Gateway = ai.Disabled{}
	}
	if deps.Publisher == nil {
		deps.Publisher = messaging.Nop{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}

	hooks := &services.Hooks{Publisher: deps.Publisher, Notifier: deps.Notifier, Logger: deps.Logger}

	settingsSvc := services.NewSettingsService(deps.Store)
	catalogSvc := services.NewCatalogService(deps.Store, settingsSvc, hooks)
	orderSvc := services.NewOrderService(deps.Store, hooks)
	directorySvc := services.NewDirectoryService(deps.Store)
	assistant := services.NewAssistant(deps.Gateway, deps.Logger)

	cfg := &RouterConfig{
		Settings:  settingsSvc,
		Catalog:   catalogSvc,
		Orders:    orderSvc,
		Directory: directorySvc,
		Assistant: assistant,

		AuthHandler:       handlers.NewAuthHandler(deps.Store),
		HealthHandler:     handlers.NewHealthHandler(deps.Store),
		StorefrontHandler: handlers.NewStorefrontHandler(catalogSvc, settingsSvc, assistant),

		SettingsHandler: handlers.NewSettingsHandler(settingsSvc),
		ProductHandler:  handlers.NewProductHandler(catalogSvc, settingsSvc, assistant),
		OrderHandler:    handlers.NewOrderHandler(orderSvc, directorySvc, assistant),
		HubHandler:      handlers.NewHubHandler(directorySvc),
	}
	if deps.Scouts != nil {
		cfg.ScoutHandler = handlers.NewScoutHandler(scout.NewRegistry(deps.Scouts), catalogSvc)
	}
	return cfg
}
