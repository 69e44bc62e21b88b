package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/unihub/unidrop/internal/models"
)

// Memory is a process-local Store used when DB_DRIVER=memory and in tests.
// Partners and vendors are indexed by hub id.
type Memory struct {
	mu sync.RWMutex

	products map[string]models.Product
	orders   map[string]models.Order
	hubs     map[string]models.Hub
	partners map[string][]models.LogisticsPartner
	vendors  map[string][]models.LocalVendor
	settings *models.BusinessSettings
	users    map[uint]models.User
	nextUser uint

	now func() time.Time
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		products: make(map[string]models.Product),
		orders:   make(map[string]models.Order),
		hubs:     make(map[string]models.Hub),
		partners: make(map[string][]models.LogisticsPartner),
		vendors:  make(map[string][]models.LocalVendor),
		users:    make(map[uint]models.User),
		now:      time.Now,
	}
}

func cloneProduct(p models.Product) models.Product {
	if p.IsApproved != nil {
		p.IsApproved = models.Bool(*p.IsApproved)
	}
	p.Hub = nil
	return p
}

func (m *Memory) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.now()
	}
	m.products[p.ID] = cloneProduct(*p)
	return nil
}

func (m *Memory) GetProduct(_ context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (m *Memory) ListProducts(_ context.Context, q ProductQuery) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name := strings.ToLower(strings.TrimSpace(q.Name))
	out := []models.Product{}
	for _, p := range m.products {
		if q.HubID != "" && p.HubID != q.HubID {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		switch q.Approval {
		case ApprovalActive:
			if !p.Active() {
				continue
			}
		case ApprovalPending:
			if !p.Pending() {
				continue
			}
		}
		out = append(out, cloneProduct(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) SaveProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = cloneProduct(*p)
	return nil
}

func (m *Memory) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *Memory) CreateOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.OrderedAt.IsZero() {
		o.OrderedAt = m.now()
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *Memory) GetOrder(_ context.Context, id string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (m *Memory) ListOrders(_ context.Context, q OrderQuery) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if q.HubID != "" && o.HubID != q.HubID {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderedAt.After(out[j].OrderedAt) })
	return out, nil
}

func (m *Memory) SaveOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = *o
	return nil
}

func (m *Memory) CreateHub(_ context.Context, h *models.Hub) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = m.now()
	}
	m.hubs[h.ID] = *h
	return nil
}

func (m *Memory) GetHub(_ context.Context, id string) (*models.Hub, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hubs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (m *Memory) FindHubByName(_ context.Context, name string) (*models.Hub, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name = strings.TrimSpace(name)
	for _, h := range m.hubs {
		if strings.EqualFold(h.Name, name) {
			return &h, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListHubs(_ context.Context, activeOnly bool) ([]models.Hub, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Hub{}
	for _, h := range m.hubs {
		if activeOnly && !h.Active {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) SaveHub(_ context.Context, h *models.Hub) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hubs[h.ID] = *h
	return nil
}

func (m *Memory) CreatePartner(_ context.Context, p *models.LogisticsPartner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = m.now()
	}
	m.partners[p.HubID] = append(m.partners[p.HubID], *p)
	return nil
}

func (m *Memory) ListPartners(_ context.Context, hubID string) ([]models.LogisticsPartner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.LogisticsPartner{}, m.partners[hubID]...), nil
}

func (m *Memory) CreateVendor(_ context.Context, v *models.LocalVendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = m.now()
	}
	m.vendors[v.HubID] = append(m.vendors[v.HubID], *v)
	return nil
}

func (m *Memory) ListVendors(_ context.Context, hubID string) ([]models.LocalVendor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.LocalVendor{}, m.vendors[hubID]...), nil
}

func (m *Memory) GetSettings(_ context.Context) (*models.BusinessSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return nil, ErrNotFound
	}
	s := *m.settings
	return &s, nil
}

func (m *Memory) SaveSettings(_ context.Context, s *models.BusinessSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = models.SettingsID
	s.UpdatedAt = m.now()
	cp := *s
	m.settings = &cp
	return nil
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUser++
	u.ID = m.nextUser
	now := m.now()
	u.CreatedAt, u.UpdatedAt = now, now
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email = strings.TrimSpace(email)
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Ping(context.Context) error { return nil }
