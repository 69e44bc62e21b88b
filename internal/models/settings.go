package models

import "time"

// SettingsID is the primary key of the single settings row.
const SettingsID uint = 1

// BusinessSettings holds the process-wide storefront configuration.
type BusinessSettings struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`

	StoreName     string `gorm:"size:255;not null" json:"store_name"`
	ContactNumber string `gorm:"size:50" json:"contact_number"`
	Currency      string `gorm:"size:10;not null" json:"currency"`
	DeliveryNote  string `gorm:"type:text" json:"delivery_note,omitempty"`

	// DefaultMarkupPercent is applied to source costs when no explicit
	// selling price is given (30 means +30%).
	DefaultMarkupPercent float64 `gorm:"type:decimal(6,2);not null" json:"default_markup_percent"`
}
