package handlers

import (
	"net/http"

	"github.com/unihub/unidrop/httpx"
	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/services"
)

// ProductHandler serves the admin inventory endpoints.
type ProductHandler struct {
	catalog   *services.CatalogService
	settings  *services.SettingsService
	assistant *services.Assistant
}

func NewProductHandler(catalog *services.CatalogService, settings *services.SettingsService, assistant *services.Assistant) *ProductHandler {
	return &ProductHandler{catalog: catalog, settings: settings, assistant: assistant}
}

type productView struct {
	models.Product
	Profit float64 `json:"profit"`
	Status string  `json:"status"`
}

func viewProduct(p models.Product) productView {
	status := string(services.PartitionActive)
	if p.Pending() {
		status = string(services.PartitionPending)
	}
	return productView{Product: p, Profit: p.Profit(), Status: status}
}

func viewProducts(products []models.Product) []productView {
	out := make([]productView, len(products))
	for i, p := range products {
		out[i] = viewProduct(p)
	}
	return out
}

// List filters by ?status=all|active|pending&hub=&category=&q=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	partition, ok := services.ParsePartition(q.Get("status"))
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"status": "invalid"})
		return
	}
	products, err := h.catalog.List(r.Context(), services.Filter{
		Hub:       q.Get("hub"),
		Category:  q.Get("category"),
		Query:     q.Get("q"),
		Partition: partition,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	active, pending := services.PartitionProducts(products)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"products":      viewProducts(products),
		"active_count":  len(active),
		"pending_count": len(pending),
	})
}

// Create adds an approved product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		badJSON(w, err)
		return
	}
	p, err := h.catalog.Submit(r.Context(), in, services.OriginAdmin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewProduct(*p))
}

func (h *ProductHandler) View(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewProduct(*p))
}

// Approve answers 204 whether or not anything changed.
func (h *ProductHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Approve(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// Delete answers 204 whether or not the product existed.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// Copy drafts a marketing description.
func (h *ProductHandler) Copy(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"text": h.assistant.MarketingCopy(r.Context(), p)})
}

// PricingAdvice comments on the product price at the default markup.
func (h *ProductHandler) PricingAdvice(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	bs, err := h.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	text := h.assistant.PricingAdvice(r.Context(), p, bs.DefaultMarkupPercent, bs.Currency)
	httpx.JSON(w, http.StatusOK, map[string]string{"text": text})
}

type quoteRequest struct {
	SourceCost    float64  `json:"source_cost"`
	MarkupPercent *float64 `json:"markup_percent"`
}

// Quote runs the price calculator.
func (h *ProductHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	q, err := h.catalog.Quote(r.Context(), req.SourceCost, req.MarkupPercent)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}
