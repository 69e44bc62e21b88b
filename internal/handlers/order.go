package handlers

import (
	"net/http"

	"github.com/unihub/unidrop/httpx"
	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/services"
)

// OrderHandler serves the admin order endpoints and the dashboard.
type OrderHandler struct {
	orders    *services.OrderService
	directory *services.DirectoryService
	assistant *services.Assistant
}

func NewOrderHandler(orders *services.OrderService, directory *services.DirectoryService, assistant *services.Assistant) *OrderHandler {
	return &OrderHandler{orders: orders, directory: directory, assistant: assistant}
}

type orderView struct {
	models.Order
	Balance float64 `json:"balance"`
}

func viewOrders(orders []models.Order) []orderView {
	out := make([]orderView, len(orders))
	for i, o := range orders {
		out[i] = orderView{Order: o, Balance: o.Balance()}
	}
	return out
}

// hubID resolves the ?hub= parameter (id or name). Empty means all hubs.
func (h *OrderHandler) hubID(r *http.Request) (string, error) {
	ref := r.URL.Query().Get("hub")
	if ref == "" {
		return "", nil
	}
	hub, err := h.directory.ResolveHub(r.Context(), ref)
	if err != nil {
		return "", err
	}
	return hub.ID, nil
}

// List filters by ?hub=&status=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	hubID, err := h.hubID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var status models.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st, ok := models.ParseOrderStatus(s)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"status": "invalid"})
			return
		}
		status = st
	}
	orders, err := h.orders.List(r.Context(), services.OrderFilter{HubID: hubID, Status: status})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOrders(orders))
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		badJSON(w, err)
		return
	}
	o, err := h.orders.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, orderView{Order: *o, Balance: o.Balance()})
}

// Advance answers 404 for a missing order and 409 for a cancelled one.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Advance(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderView{Order: *o, Balance: o.Balance()})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderView{Order: *o, Balance: o.Balance()})
}

// Insights asks the assistant to comment on the hub's orders.
func (h *OrderHandler) Insights(w http.ResponseWriter, r *http.Request) {
	hubID, err := h.hubID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders, err := h.orders.List(r.Context(), services.OrderFilter{HubID: hubID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"text": h.assistant.OrderInsights(r.Context(), orders)})
}

// Dashboard returns the totals plus the five most recent orders.
func (h *OrderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	hubID, err := h.hubID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := h.orders.Summary(r.Context(), hubID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	recent, err := h.orders.List(r.Context(), services.OrderFilter{HubID: hubID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"summary":       sum,
		"recent_orders": viewOrders(recent),
	})
}
