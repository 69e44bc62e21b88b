package models

import "time"

// Hub is a regional fulfilment and sourcing location. Products, partners
// and vendors point at a hub by ID.
type Hub struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Active    bool      `gorm:"not null" json:"active"`
}

// LogisticsPartner delivers orders for a hub.
type LogisticsPartner struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	HubID     string    `gorm:"type:varchar(36);index;not null" json:"hub_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Contact   string    `gorm:"size:100;not null" json:"contact"`
	Type      string    `gorm:"size:100" json:"type,omitempty"`
}

// LocalVendor supplies products to a hub.
type LocalVendor struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	HubID     string    `gorm:"type:varchar(36);index;not null" json:"hub_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Contact   string    `gorm:"size:100;not null" json:"contact"`
	Specialty string    `gorm:"size:100;not null;default:'General'" json:"specialty"`
}

// DefaultSpecialty is used when a vendor registers without one.
const DefaultSpecialty = "General"
