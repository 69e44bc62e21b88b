package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/unihub/unidrop/internal/messaging"
	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/store"
	"github.com/unihub/unidrop/validation"
)

// OrderInput places an order for one product.
type OrderInput struct {
	ProductID     string   `json:"product_id"`
	CustomerName  string   `json:"customer_name"`
	ContactNumber string   `json:"contact_number"`
	PaymentStatus string   `json:"payment_status"`
	AmountPaid    *float64 `json:"amount_paid"`
}

// OrderFilter narrows List. Zero values match everything.
type OrderFilter struct {
	HubID  string
	Status models.OrderStatus
}

// Summary holds the dashboard totals for one hub or all hubs.
type Summary struct {
	Orders            int                        `json:"orders"`
	ByStatus          map[models.OrderStatus]int `json:"by_status"`
	Revenue           float64                    `json:"revenue"`
	Profit            float64                    `json:"profit"`
	OutstandingCredit float64                    `json:"outstanding_credit"`
	ActiveProducts    int                        `json:"active_products"`
	PendingProducts   int                        `json:"pending_products"`
}

// OrderService owns order creation and the fulfilment status ring.
type OrderService struct {
	store store.Store
	hooks *Hooks
	now   func() time.Time
}

func NewOrderService(st store.Store, hooks *Hooks) *OrderService {
	return &OrderService{store: st, hooks: hooks, now: time.Now}
}

// Create snapshots the product into a new pending order. A paid order
// always records the full selling price as paid.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	v := validation.Violations{}
	validation.Required("customer_name", in.CustomerName, v)
	validation.Required("product_id", in.ProductID, v)
	payment, ok := models.ParsePaymentStatus(in.PaymentStatus)
	if !ok {
		validation.Invalid("payment_status", v)
	}
	if in.AmountPaid != nil {
		validation.NonNegativeFloat("amount_paid", *in.AmountPaid, v)
	}

	var product *models.Product
	if _, missing := v["product_id"]; !missing {
		p, err := s.store.GetProduct(ctx, strings.TrimSpace(in.ProductID))
		switch {
		case errors.Is(err, store.ErrNotFound):
			v["product_id"] = "unknown"
		case err != nil:
			return nil, err
		default:
			product = p
		}
	}
	if err := check(v); err != nil {
		return nil, err
	}

	amount := floatOr(in.AmountPaid, 0)
	if payment == models.PaymentPaid {
		amount = product.SellingPrice
	}
	profit := decimal.NewFromFloat(product.SellingPrice).Sub(decimal.NewFromFloat(product.SourcePrice))

	o := &models.Order{
		ID:            uuid.NewString(),
		OrderedAt:     s.now().UTC(),
		ProductID:     product.ID,
		ProductName:   product.Name,
		UnitPrice:     product.SellingPrice,
		HubID:         product.HubID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Status:        models.OrderStatusPending,
		PaymentStatus: payment,
		AmountPaid:    amount,
		Profit:        profit.InexactFloat64(),
	}
	if err := s.store.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.hooks.logger().Info("order placed", "id", o.ID, "product", o.ProductID, "payment", o.PaymentStatus)
	s.hooks.publish(ctx, messaging.TopicOrderPlaced, o.ID, map[string]any{"order": o})
	s.hooks.alert(ctx, fmt.Sprintf("New order: %s for %s, %s (%s paid)",
		o.ProductName, o.CustomerName, o.PaymentStatus, formatPrice(o.AmountPaid)))
	return o, nil
}

// Advance moves an order one step along pending, shipped, delivered and
// back to pending. Cancelled orders return ErrNoTransition unchanged.
func (s *OrderService) Advance(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := o.Status.Next()
	if !ok {
		return o, ErrNoTransition
	}
	return s.transition(ctx, o, next)
}

// Cancel takes an order off the status ring. Cancelling twice is a no-op.
func (s *OrderService) Cancel(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.IsCancelled() {
		return o, nil
	}
	return s.transition(ctx, o, models.OrderStatusCancelled)
}

func (s *OrderService) transition(ctx context.Context, o *models.Order, to models.OrderStatus) (*models.Order, error) {
	from := o.Status
	o.Status = to
	if err := s.store.SaveOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	s.hooks.publish(ctx, messaging.TopicOrderStatusChanged, o.ID, map[string]any{
		"id": o.ID, "from": from, "to": to,
	})
	return o, nil
}

func (s *OrderService) get(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return o, err
}

// Get returns an order or ErrNotFound.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.get(ctx, id)
}

// List returns orders newest first.
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalidField("status", "invalid")
	}
	return s.store.ListOrders(ctx, store.OrderQuery{HubID: f.HubID, Status: f.Status})
}

// Summary totals orders and products, optionally for one hub. Cancelled
// orders count by status only.
func (s *OrderService) Summary(ctx context.Context, hubID string) (*Summary, error) {
	orders, err := s.store.ListOrders(ctx, store.OrderQuery{HubID: hubID})
	if err != nil {
		return nil, err
	}
	products, err := s.store.ListProducts(ctx, store.ProductQuery{HubID: hubID})
	if err != nil {
		return nil, err
	}

	sum := &Summary{Orders: len(orders), ByStatus: make(map[models.OrderStatus]int)}
	for _, st := range []models.OrderStatus{models.OrderStatusPending, models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled} {
		sum.ByStatus[st] = 0
	}
	revenue, profit, credit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, o := range orders {
		sum.ByStatus[o.Status]++
		if o.IsCancelled() {
			continue
		}
		revenue = revenue.Add(decimal.NewFromFloat(o.AmountPaid))
		profit = profit.Add(decimal.NewFromFloat(o.Profit))
		credit = credit.Add(decimal.NewFromFloat(o.Balance()))
	}
	sum.Revenue = revenue.InexactFloat64()
	sum.Profit = profit.InexactFloat64()
	sum.OutstandingCredit = credit.InexactFloat64()

	active, pending := PartitionProducts(products)
	sum.ActiveProducts, sum.PendingProducts = len(active), len(pending)
	return sum, nil
}
