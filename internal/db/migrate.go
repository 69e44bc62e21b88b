// Package db opens the relational database, migrates it and seeds defaults.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/settings"
	"github.com/unihub/unidrop/internal/store"
)

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Admin is the back-office account created on first start.
type Admin struct {
	Email    string
	Password string
}

// Seed creates the settings row, the hubs and the admin user when missing.
// It is idempotent. An empty admin password skips the admin account.
func Seed(ctx context.Context, st store.Store, d settings.Defaults, admin Admin) error {
	if err := seedSettings(ctx, st, d); err != nil {
		return err
	}
	if err := seedHubs(ctx, st, d.Hubs); err != nil {
		return err
	}
	return seedAdmin(ctx, st, admin)
}

func seedSettings(ctx context.Context, st store.Store, d settings.Defaults) error {
	_, err := st.GetSettings(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load settings: %w", err)
	}
	s := &models.BusinessSettings{
		StoreName:            d.StoreName,
		ContactNumber:        d.ContactNumber,
		Currency:             d.Currency,
		DeliveryNote:         d.DeliveryNote,
		DefaultMarkupPercent: d.DefaultMarkupPercent,
	}
	if err := st.SaveSettings(ctx, s); err != nil {
		return err
	}
	slog.Info("seeded business settings", "store", s.StoreName, "currency", s.Currency)
	return nil
}

func seedHubs(ctx context.Context, st store.Store, names []string) error {
	existing, err := st.ListHubs(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, name := range names {
		h := &models.Hub{ID: uuid.NewString(), Name: name, Active: true}
		if err := st.CreateHub(ctx, h); err != nil {
			return fmt.Errorf("seed hub %q: %w", name, err)
		}
	}
	slog.Info("seeded hubs", "count", len(names))
	return nil
}

func seedAdmin(ctx context.Context, st store.Store, admin Admin) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		slog.Warn("no ADMIN_PASSWORD configured, admin account not seeded")
		return nil
	}
	_, err := st.FindUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("find admin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	u := &models.User{Email: email, Name: "Admin", Password: string(hash)}
	if err := st.CreateUser(ctx, u); err != nil {
		return err
	}
	slog.Info("seeded admin user", "email", email)
	return nil
}
