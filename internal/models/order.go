package models

import "time"

// Order is a single-product customer order. Product fields are copied at
// creation time and never follow later product edits.
type Order struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderedAt time.Time `gorm:"not null;index" json:"ordered_at"`

	// Product snapshot. ProductID may dangle once the product is deleted.
	ProductID   string  `gorm:"type:varchar(36);index;not null" json:"product_id"`
	ProductName string  `gorm:"size:255;not null" json:"product_name"`
	UnitPrice   float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	HubID       string  `gorm:"type:varchar(36);index" json:"hub_id"`

	CustomerName  string `gorm:"size:255;not null" json:"customer_name"`
	ContactNumber string `gorm:"size:50" json:"contact_number,omitempty"`

	Status        OrderStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:20;not null" json:"payment_status"`
	AmountPaid    float64       `gorm:"type:decimal(12,2);not null;default:0" json:"amount_paid"`

	// Profit is fixed when the order is created.
	Profit float64 `gorm:"type:decimal(12,2);not null" json:"profit"`
}

// Balance returns what the customer still owes.
func (o *Order) Balance() float64 {
	if b := o.UnitPrice - o.AmountPaid; b > 0 {
		return b
	}
	return 0
}

// IsCancelled reports whether the order left the fulfilment ring.
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}
