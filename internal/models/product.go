package models

import "time"

// Product is a catalog entry sold from a hub.
type Product struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string   `gorm:"size:255;not null" json:"name"`
	Category    Category `gorm:"size:30;not null;index" json:"category"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string   `gorm:"size:500" json:"image_url,omitempty"`

	// Prices are whole-record values; no ordering between them is enforced.
	SourcePrice  float64 `gorm:"type:decimal(12,2);not null;default:0" json:"source_price"`
	SellingPrice float64 `gorm:"type:decimal(12,2);not null;default:0" json:"selling_price"`
	DeliveryCost float64 `gorm:"type:decimal(12,2);not null;default:0" json:"delivery_cost"`
	Stock        int     `gorm:"not null;default:0" json:"stock"`

	HubID string `gorm:"type:varchar(36);index;not null" json:"hub_id"`
	Hub   *Hub   `gorm:"foreignKey:HubID" json:"hub,omitempty"`

	// IsApproved is three-valued: nil and true are active, false is a
	// pending scout pitch.
	IsApproved  *bool  `gorm:"column:is_approved" json:"is_approved,omitempty"`
	SubmittedBy string `gorm:"size:100" json:"submitted_by,omitempty"`
}

// Active reports whether the product is visible in the storefront.
func (p *Product) Active() bool {
	return p.IsApproved == nil || *p.IsApproved
}

// Pending reports whether the product awaits admin approval.
func (p *Product) Pending() bool {
	return !p.Active()
}

// Profit returns the margin per unit. It may be negative.
func (p *Product) Profit() float64 {
	return p.SellingPrice - p.SourcePrice
}

// Bool returns a pointer to b, for the IsApproved field.
func Bool(b bool) *bool {
	return &b
}
