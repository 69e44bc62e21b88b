package services

import (
	"context"
	"errors"
	"strings"

	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/store"
	"github.com/unihub/unidrop/validation"
)

// DefaultMarkupPercent applies until settings are seeded.
const DefaultMarkupPercent = 30

// PublicSettings is the storefront-visible subset of BusinessSettings.
type PublicSettings struct {
	StoreName     string `json:"store_name"`
	ContactNumber string `json:"contact_number"`
	Currency      string `json:"currency"`
	DeliveryNote  string `json:"delivery_note,omitempty"`
}

// SettingsInput replaces the editable business settings.
type SettingsInput struct {
	StoreName            string  `json:"store_name"`
	ContactNumber        string  `json:"contact_number"`
	Currency             string  `json:"currency"`
	DeliveryNote         string  `json:"delivery_note"`
	DefaultMarkupPercent float64 `json:"default_markup_percent"`
}

type SettingsService struct {
	store store.Store
}

func NewSettingsService(st store.Store) *SettingsService {
	return &SettingsService{store: st}
}

// Get returns the stored settings, or built-in defaults before seeding.
func (s *SettingsService) Get(ctx context.Context) (*models.BusinessSettings, error) {
	bs, err := s.store.GetSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return &models.BusinessSettings{
			ID:                   models.SettingsID,
			StoreName:            "UniHub",
			Currency:             "GHS",
			DefaultMarkupPercent: DefaultMarkupPercent,
		}, nil
	}
	return bs, err
}

// Public returns the subset shown to customers.
func (s *SettingsService) Public(ctx context.Context) (PublicSettings, error) {
	bs, err := s.Get(ctx)
	if err != nil {
		return PublicSettings{}, err
	}
	return PublicSettings{
		StoreName:     bs.StoreName,
		ContactNumber: bs.ContactNumber,
		Currency:      bs.Currency,
		DeliveryNote:  bs.DeliveryNote,
	}, nil
}

// Update validates and saves in. The whole row is replaced.
func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (*models.BusinessSettings, error) {
	v := validation.Violations{}
	validation.Required("store_name", in.StoreName, v)
	validation.Required("currency", in.Currency, v)
	validation.MaxLen("currency", in.Currency, 10, v)
	validation.RangeFloat("default_markup_percent", in.DefaultMarkupPercent, 0, 1000, v)
	if in.ContactNumber != "" && digitsOnly(in.ContactNumber) == "" {
		validation.Invalid("contact_number", v)
	}
	if err := check(v); err != nil {
		return nil, err
	}
	bs := &models.BusinessSettings{
		StoreName:            strings.TrimSpace(in.StoreName),
		ContactNumber:        strings.TrimSpace(in.ContactNumber),
		Currency:             strings.ToUpper(strings.TrimSpace(in.Currency)),
		DeliveryNote:         strings.TrimSpace(in.DeliveryNote),
		DefaultMarkupPercent: in.DefaultMarkupPercent,
	}
	if err := s.store.SaveSettings(ctx, bs); err != nil {
		return nil, err
	}
	return bs, nil
}

// markup returns the configured default markup percent.
func (s *SettingsService) markup(ctx context.Context) (float64, error) {
	bs, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return bs.DefaultMarkupPercent, nil
}
