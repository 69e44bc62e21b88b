package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/unihub/unidrop/internal/messaging"
	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/pricing"
	"github.com/unihub/unidrop/internal/store"
	"github.com/unihub/unidrop/validation"
)

// Origin tells Submit who is adding the product.
type Origin int

const (
	// OriginAdmin products are live immediately.
	OriginAdmin Origin = iota
	// OriginScout products wait for approval.
	OriginScout
)

func (o Origin) String() string {
	if o == OriginScout {
		return "scout"
	}
	return "admin"
}

// ProductInput is the submission form shared by admins and scouts.
// Optional numbers are pointers so omitted and zero can be told apart.
type ProductInput struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	Hub           string   `json:"hub"` // id or name
	SourcePrice   *float64 `json:"source_price"`
	SellingPrice  *float64 `json:"selling_price"`
	MarkupPercent *float64 `json:"markup_percent"`
	DeliveryCost  *float64 `json:"delivery_cost"`
	Stock         *int     `json:"stock"`
	// SubmittedBy is the scout name, set by the transport layer.
	SubmittedBy string `json:"-"`
}

// Partition selects products by approval state.
type Partition string

const (
	PartitionAll     Partition = "all"
	PartitionActive  Partition = "active"
	PartitionPending Partition = "pending"
)

// ParsePartition maps "" to PartitionAll.
func ParsePartition(s string) (Partition, bool) {
	switch p := Partition(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PartitionAll, true
	case PartitionAll, PartitionActive, PartitionPending:
		return p, true
	}
	return Partition(s), false
}

// Filter narrows List. Hub accepts an id or a name.
type Filter struct {
	Hub       string
	Category  string
	Query     string
	Partition Partition
}

// CatalogService owns the product lifecycle: submit, approve, delete.
type CatalogService struct {
	store    store.Store
	settings *SettingsService
	hooks    *Hooks
}

func NewCatalogService(st store.Store, settings *SettingsService, hooks *Hooks) *CatalogService {
	return &CatalogService{store: st, settings: settings, hooks: hooks}
}

// Submit validates in and inserts a new product. Admin products are
// approved, scout products are pending. Nothing is written on error.
func (s *CatalogService) Submit(ctx context.Context, in ProductInput, origin Origin) (*models.Product, error) {
	v := validation.Violations{}
	name := strings.TrimSpace(in.Name)
	validation.Required("name", name, v)
	validation.MaxLen("name", name, 255, v)
	validation.MaxLen("image_url", in.ImageURL, 500, v)

	category, ok := models.ParseCategory(in.Category)
	if !ok {
		validation.Invalid("category", v)
	}
	source := floatOr(in.SourcePrice, 0)
	delivery := floatOr(in.DeliveryCost, 0)
	stock := 1
	if in.Stock != nil {
		stock = *in.Stock
	}
	validation.NonNegativeFloat("source_price", source, v)
	validation.NonNegativeFloat("delivery_cost", delivery, v)
	validation.NonNegativeInt("stock", stock, v)
	if in.MarkupPercent != nil {
		validation.NonNegativeFloat("markup_percent", *in.MarkupPercent, v)
	}

	var selling float64
	switch {
	case in.SellingPrice != nil:
		selling = *in.SellingPrice
		// An explicit price replaces the markup, so 0 would list the item for free.
		validation.PositiveFloat("selling_price", selling, v)
	case in.SourcePrice != nil && source > 0:
		markup, err := s.markupFor(ctx, in.MarkupPercent)
		if err != nil {
			return nil, err
		}
		selling = pricing.SellingPrice(source, markup)
	default:
		v["selling_price"] = "required"
	}

	var hub *models.Hub
	if strings.TrimSpace(in.Hub) == "" {
		v["hub"] = "required"
	} else {
		h, err := resolveHub(ctx, s.store, in.Hub)
		switch {
		case errors.Is(err, ErrNotFound):
			v["hub"] = "unknown"
		case err != nil:
			return nil, err
		default:
			hub = h
		}
	}
	if err := check(v); err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     category,
		Description:  strings.TrimSpace(in.Description),
		ImageURL:     strings.TrimSpace(in.ImageURL),
		SourcePrice:  source,
		SellingPrice: selling,
		DeliveryCost: delivery,
		Stock:        stock,
		HubID:        hub.ID,
		IsApproved:   models.Bool(origin == OriginAdmin),
	}
	if origin == OriginScout {
		p.SubmittedBy = strings.TrimSpace(in.SubmittedBy)
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("submit product: %w", err)
	}
	s.hooks.logger().Info("product submitted", "id", p.ID, "origin", origin.String(), "hub", hub.Name)

	s.hooks.publish(ctx, messaging.TopicProductSubmitted, p.ID, map[string]any{
		"product": p, "origin": origin.String(),
	})
	if origin == OriginScout {
		s.hooks.alert(ctx, fmt.Sprintf("New pitch from %s: %s (%s) at %s, selling %s",
			nonEmpty(p.SubmittedBy, "anonymous scout"), p.Name, p.Category, hub.Name, formatPrice(p.SellingPrice)))
	}
	return p, nil
}

func (s *CatalogService) markupFor(ctx context.Context, explicit *float64) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	return s.settings.markup(ctx)
}

// Quote prices a source cost with the given markup or the default markup.
func (s *CatalogService) Quote(ctx context.Context, sourceCost float64, markup *float64) (pricing.Quote, error) {
	v := validation.Violations{}
	validation.NonNegativeFloat("source_cost", sourceCost, v)
	if markup != nil {
		validation.NonNegativeFloat("markup_percent", *markup, v)
	}
	if err := check(v); err != nil {
		return pricing.Quote{}, err
	}
	m, err := s.markupFor(ctx, markup)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.NewQuote(sourceCost, m), nil
}

// Approve makes a pending product active. A missing or already active
// product is left alone.
func (s *CatalogService) Approve(ctx context.Context, id string) error {
	p, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.Active() {
		return nil
	}
	p.IsApproved = models.Bool(true)
	if err := s.store.SaveProduct(ctx, p); err != nil {
		return fmt.Errorf("approve product: %w", err)
	}
	s.hooks.publish(ctx, messaging.TopicProductApproved, p.ID, map[string]any{"product": p})
	return nil
}

// Delete removes a product. Orders keep their snapshot. A missing id is
// not an error.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.hooks.publish(ctx, messaging.TopicProductDeleted, id, map[string]any{"id": id})
	return nil
}

// Get returns a product or ErrNotFound.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// List returns products matching f, newest first.
func (s *CatalogService) List(ctx context.Context, f Filter) ([]models.Product, error) {
	q := store.ProductQuery{Name: f.Query}
	v := validation.Violations{}
	if strings.TrimSpace(f.Category) != "" {
		c, ok := models.ParseCategory(f.Category)
		if !ok {
			validation.Invalid("category", v)
		}
		q.Category = c
	}
	switch f.Partition {
	case "", PartitionAll:
	case PartitionActive:
		q.Approval = store.ApprovalActive
	case PartitionPending:
		q.Approval = store.ApprovalPending
	default:
		validation.Invalid("status", v)
	}
	if strings.TrimSpace(f.Hub) != "" {
		h, err := resolveHub(ctx, s.store, f.Hub)
		switch {
		case errors.Is(err, ErrNotFound):
			v["hub"] = "unknown"
		case err != nil:
			return nil, err
		default:
			q.HubID = h.ID
		}
	}
	if err := check(v); err != nil {
		return nil, err
	}
	return s.store.ListProducts(ctx, q)
}

// PartitionProducts splits products into active and pending. Every product
// lands in exactly one of the two.
func PartitionProducts(products []models.Product) (active, pending []models.Product) {
	for _, p := range products {
		if p.Active() {
			active = append(active, p)
		} else {
			pending = append(pending, p)
		}
	}
	return active, pending
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
