package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unihub/unidrop/internal/models"
)

// likeEscaper makes %, _ and the escape char itself match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Gorm is the relational Store backed by sqlite or postgres.
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps an open, migrated connection.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// DB exposes the underlying connection for migrations and health checks.
func (g *Gorm) DB() *gorm.DB { return g.db }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (g *Gorm) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := g.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (g *Gorm) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := g.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (g *Gorm) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	tx := g.db.WithContext(ctx).Model(&models.Product{})
	if q.HubID != "" {
		tx = tx.Where("hub_id = ?", q.HubID)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if name := strings.TrimSpace(q.Name); name != "" {
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(name))+"%")
	}
	switch q.Approval {
	case ApprovalActive:
		tx = tx.Where("(is_approved IS NULL OR is_approved = ?)", true)
	case ApprovalPending:
		tx = tx.Where("is_approved = ?", false)
	}
	var out []models.Product
	if err := tx.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (g *Gorm) SaveProduct(ctx context.Context, p *models.Product) error {
	if err := g.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (g *Gorm) DeleteProduct(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) CreateOrder(ctx context.Context, o *models.Order) error {
	if err := g.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (g *Gorm) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := g.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (g *Gorm) ListOrders(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	tx := g.db.WithContext(ctx).Model(&models.Order{})
	if q.HubID != "" {
		tx = tx.Where("hub_id = ?", q.HubID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	var out []models.Order
	if err := tx.Order("ordered_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

func (g *Gorm) SaveOrder(ctx context.Context, o *models.Order) error {
	if err := g.db.WithContext(ctx).Save(o).Error; err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (g *Gorm) CreateHub(ctx context.Context, h *models.Hub) error {
	if err := g.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("create hub: %w", err)
	}
	return nil
}

func (g *Gorm) GetHub(ctx context.Context, id string) (*models.Hub, error) {
	var h models.Hub
	if err := g.db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (g *Gorm) FindHubByName(ctx context.Context, name string) (*models.Hub, error) {
	var h models.Hub
	err := g.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&h).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (g *Gorm) ListHubs(ctx context.Context, activeOnly bool) ([]models.Hub, error) {
	tx := g.db.WithContext(ctx).Model(&models.Hub{})
	if activeOnly {
		tx = tx.Where("active = ?", true)
	}
	var out []models.Hub
	if err := tx.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list hubs: %w", err)
	}
	return out, nil
}

func (g *Gorm) SaveHub(ctx context.Context, h *models.Hub) error {
	if err := g.db.WithContext(ctx).Save(h).Error; err != nil {
		return fmt.Errorf("save hub: %w", err)
	}
	return nil
}

func (g *Gorm) CreatePartner(ctx context.Context, p *models.LogisticsPartner) error {
	if err := g.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create partner: %w", err)
	}
	return nil
}

func (g *Gorm) ListPartners(ctx context.Context, hubID string) ([]models.LogisticsPartner, error) {
	var out []models.LogisticsPartner
	if err := g.db.WithContext(ctx).Where("hub_id = ?", hubID).Order("created_at").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return out, nil
}

func (g *Gorm) CreateVendor(ctx context.Context, v *models.LocalVendor) error {
	if err := g.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create vendor: %w", err)
	}
	return nil
}

func (g *Gorm) ListVendors(ctx context.Context, hubID string) ([]models.LocalVendor, error) {
	var out []models.LocalVendor
	if err := g.db.WithContext(ctx).Where("hub_id = ?", hubID).Order("created_at").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return out, nil
}

func (g *Gorm) GetSettings(ctx context.Context) (*models.BusinessSettings, error) {
	var s models.BusinessSettings
	if err := g.db.WithContext(ctx).First(&s, models.SettingsID).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (g *Gorm) SaveSettings(ctx context.Context, s *models.BusinessSettings) error {
	s.ID = models.SettingsID
	if err := g.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	if err := g.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (g *Gorm) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (g *Gorm) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := g.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (g *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
