package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a back-office administrator.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // bcrypt hash
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&BusinessSettings{},
		&Hub{},
		&Product{},
		&Order{},
		&LogisticsPartner{},
		&LocalVendor{},
	}
}
