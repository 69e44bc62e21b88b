package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/store"
	"github.com/unihub/unidrop/validation"
)

// DirectoryService manages hubs and the partners and vendors attached to them.
type DirectoryService struct {
	store store.Store
}

func NewDirectoryService(st store.Store) *DirectoryService {
	return &DirectoryService{store: st}
}

// CreateHub adds an active hub. Names are unique ignoring case.
func (s *DirectoryService) CreateHub(ctx context.Context, name string) (*models.Hub, error) {
	name = strings.TrimSpace(name)
	v := validation.Violations{}
	validation.Required("name", name, v)
	validation.MaxLen("name", name, 100, v)
	if err := check(v); err != nil {
		return nil, err
	}
	if _, err := s.store.FindHubByName(ctx, name); err == nil {
		return nil, invalidField("name", "duplicate")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	h := &models.Hub{ID: uuid.NewString(), Name: name, Active: true}
	if err := s.store.CreateHub(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *DirectoryService) ListHubs(ctx context.Context, activeOnly bool) ([]models.Hub, error) {
	return s.store.ListHubs(ctx, activeOnly)
}

// ResolveHub finds a hub by id, falling back to an exact case-insensitive
// name match.
func (s *DirectoryService) ResolveHub(ctx context.Context, ref string) (*models.Hub, error) {
	return resolveHub(ctx, s.store, ref)
}

func resolveHub(ctx context.Context, st store.Store, ref string) (*models.Hub, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNotFound
	}
	h, err := st.GetHub(ctx, ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	h, err = st.FindHubByName(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return h, err
}

// SetHubActive toggles whether the hub is offered in the storefront.
func (s *DirectoryService) SetHubActive(ctx context.Context, id string, active bool) (*models.Hub, error) {
	h, err := s.ResolveHub(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.Active == active {
		return h, nil
	}
	h.Active = active
	if err := s.store.SaveHub(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// RegisterLogisticsPartner appends a delivery partner to a hub.
func (s *DirectoryService) RegisterLogisticsPartner(ctx context.Context, hubID, name, contact, kind string) (*models.LogisticsPartner, error) {
	h, err := s.requireContactEntry(ctx, hubID, name, contact)
	if err != nil {
		return nil, err
	}
	p := &models.LogisticsPartner{
		ID:      uuid.NewString(),
		HubID:   h.ID,
		Name:    strings.TrimSpace(name),
		Contact: strings.TrimSpace(contact),
		Type:    strings.TrimSpace(kind),
	}
	if err := s.store.CreatePartner(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RegisterVendor appends a local supplier to a hub. A blank specialty
// becomes models.DefaultSpecialty.
func (s *DirectoryService) RegisterVendor(ctx context.Context, hubID, name, contact, specialty string) (*models.LocalVendor, error) {
	h, err := s.requireContactEntry(ctx, hubID, name, contact)
	if err != nil {
		return nil, err
	}
	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		specialty = models.DefaultSpecialty
	}
	vendor := &models.LocalVendor{
		ID:        uuid.NewString(),
		HubID:     h.ID,
		Name:      strings.TrimSpace(name),
		Contact:   strings.TrimSpace(contact),
		Specialty: specialty,
	}
	if err := s.store.CreateVendor(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *DirectoryService) requireContactEntry(ctx context.Context, hubID, name, contact string) (*models.Hub, error) {
	v := validation.Violations{}
	validation.Required("name", name, v)
	validation.Required("contact", contact, v)
	if err := check(v); err != nil {
		return nil, err
	}
	h, err := s.ResolveHub(ctx, hubID)
	if err != nil {
		return nil, fmt.Errorf("hub %q: %w", hubID, err)
	}
	return h, nil
}

// Partners lists the delivery partners of a hub.
func (s *DirectoryService) Partners(ctx context.Context, hubID string) ([]models.LogisticsPartner, error) {
	return s.store.ListPartners(ctx, hubID)
}

// Vendors lists the suppliers of a hub.
func (s *DirectoryService) Vendors(ctx context.Context, hubID string) ([]models.LocalVendor, error) {
	return s.store.ListVendors(ctx, hubID)
}
