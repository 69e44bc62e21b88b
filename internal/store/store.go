// Package store persists the catalog, orders, hubs and settings.
//
// Two adapters implement Store: Gorm (sqlite or postgres) and Memory. Every
// mutation is a whole-record write; callers never share pointers with the
// adapter.
package store

import (
	"context"
	"errors"

	"github.com/unihub/unidrop/internal/models"
)

// ErrNotFound is returned when a lookup by id or key matches nothing.
var ErrNotFound = errors.New("store: not found")

// Approval selects products by their three-valued approval flag.
type Approval int

const (
	ApprovalAny     Approval = iota
	ApprovalActive           // IsApproved nil or true
	ApprovalPending          // IsApproved false
)

// ProductQuery filters ListProducts. Zero values match everything.
type ProductQuery struct {
	HubID    string
	Category models.Category
	// Name matches a case-insensitive substring of the product name.
	Name     string
	Approval Approval
}

// OrderQuery filters ListOrders. Zero values match everything.
type OrderQuery struct {
	HubID  string
	Status models.OrderStatus
}

// Store is the persistence boundary injected into services.
type Store interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// ListProducts returns matches newest first.
	ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	// DeleteProduct removes the row. A missing id returns ErrNotFound.
	DeleteProduct(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns matches newest first.
	ListOrders(ctx context.Context, q OrderQuery) ([]models.Order, error)
	SaveOrder(ctx context.Context, o *models.Order) error

	CreateHub(ctx context.Context, h *models.Hub) error
	GetHub(ctx context.Context, id string) (*models.Hub, error)
	// FindHubByName matches the name case-insensitively.
	FindHubByName(ctx context.Context, name string) (*models.Hub, error)
	// ListHubs returns hubs ordered by name.
	ListHubs(ctx context.Context, activeOnly bool) ([]models.Hub, error)
	SaveHub(ctx context.Context, h *models.Hub) error

	CreatePartner(ctx context.Context, p *models.LogisticsPartner) error
	ListPartners(ctx context.Context, hubID string) ([]models.LogisticsPartner, error)
	CreateVendor(ctx context.Context, v *models.LocalVendor) error
	ListVendors(ctx context.Context, hubID string) ([]models.LocalVendor, error)

	// GetSettings returns ErrNotFound until the settings row is seeded.
	GetSettings(ctx context.Context) (*models.BusinessSettings, error)
	SaveSettings(ctx context.Context, s *models.BusinessSettings) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	Ping(ctx context.Context) error
}
