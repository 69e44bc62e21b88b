package models

import "strings"

// Category is the closed set of catalog categories.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryFashion     Category = "fashion"
	CategoryBeauty      Category = "beauty"
	CategoryFood        Category = "food"
	CategoryBooks       Category = "books"
	CategoryHostel      Category = "hostel"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryFashion,
	CategoryBeauty,
	CategoryFood,
	CategoryBooks,
	CategoryHostel,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalizes user input. An empty value maps to CategoryOther.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryOther, true
	}
	c := Category(s)
	return c, c.Valid()
}

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Next returns the status that follows s on the fulfilment ring
// pending -> shipped -> delivered -> pending. Cancelled orders are not on
// the ring and report ok=false.
func (s OrderStatus) Next() (next OrderStatus, ok bool) {
	switch s {
	case OrderStatusPending:
		return OrderStatusShipped, true
	case OrderStatusShipped:
		return OrderStatusDelivered, true
	case OrderStatusDelivered:
		return OrderStatusPending, true
	}
	return s, false
}

// ParseOrderStatus normalizes user input into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// PaymentStatus represents how much of an order has been paid.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
	PaymentCredit  PaymentStatus = "credit"
)

// Valid reports whether p is a known payment status.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPaid, PaymentPartial, PaymentCredit:
		return true
	}
	return false
}

// ParsePaymentStatus normalizes user input. An empty value maps to PaymentPaid.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PaymentPaid, true
	}
	p := PaymentStatus(s)
	return p, p.Valid()
}
