package handlers

import (
	"net/http"

	"github.com/unihub/unidrop/httpx"
	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/services"
)

// StorefrontHandler serves the public catalog. Only active products are
// ever returned.
type StorefrontHandler struct {
	catalog   *services.CatalogService
	settings  *services.SettingsService
	assistant *services.Assistant
}

func NewStorefrontHandler(catalog *services.CatalogService, settings *services.SettingsService, assistant *services.Assistant) *StorefrontHandler {
	return &StorefrontHandler{catalog: catalog, settings: settings, assistant: assistant}
}

type storefrontItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     models.Category `json:"category"`
	Description  string          `json:"description,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
	SellingPrice float64         `json:"selling_price"`
	DeliveryCost float64         `json:"delivery_cost"`
	Stock        int             `json:"stock"`
	HubID        string          `json:"hub_id"`
	WhatsAppURL  string          `json:"whatsapp_url,omitempty"`
}

func (h *StorefrontHandler) items(r *http.Request, products []models.Product) ([]storefrontItem, error) {
	bs, err := h.settings.Get(r.Context())
	if err != nil {
		return nil, err
	}
	out := make([]storefrontItem, len(products))
	for i := range products {
		p := &products[i]
		out[i] = storefrontItem{
			ID:           p.ID,
			Name:         p.Name,
			Category:     p.Category,
			Description:  p.Description,
			ImageURL:     p.ImageURL,
			SellingPrice: p.SellingPrice,
			DeliveryCost: p.DeliveryCost,
			Stock:        p.Stock,
			HubID:        p.HubID,
			WhatsAppURL:  services.WhatsAppLink(bs, p),
		}
	}
	return out, nil
}

func (h *StorefrontHandler) active(r *http.Request, hub, category, query string) ([]models.Product, error) {
	return h.catalog.List(r.Context(), services.Filter{
		Hub:       hub,
		Category:  category,
		Query:     query,
		Partition: services.PartitionActive,
	})
}

// Products lists active products, filtered by ?hub=&category=&q=.
func (h *StorefrontHandler) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.active(r, q.Get("hub"), q.Get("category"), q.Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.items(r, products)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Product returns one active product. Pending pitches are hidden.
func (h *StorefrontHandler) Product(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !p.Active() {
		writeError(w, r, services.ErrNotFound)
		return
	}
	items, err := h.items(r, []models.Product{*p})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items[0])
}

type searchRequest struct {
	Query string `json:"query"`
	Hub   string `json:"hub"`
}

// Search lets the assistant pick products matching a free-text query.
func (h *StorefrontHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	products, err := h.active(r, req.Hub, "", "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.items(r, h.assistant.Search(r.Context(), req.Query, products))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": items})
}

type recommendRequest struct {
	ProductIDs []string `json:"product_ids"`
	Hub        string   `json:"hub"`
}

// Recommendations suggests products to go with the cart.
func (h *StorefrontHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	products, err := h.active(r, req.Hub, "", "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec := h.assistant.Recommend(r.Context(), req.ProductIDs, products)
	items, err := h.items(r, rec.Products)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reason": rec.Reason, "products": items})
}
