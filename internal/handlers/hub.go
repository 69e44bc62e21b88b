package handlers

import (
	"net/http"

	"github.com/unihub/unidrop/httpx"
	"github.com/unihub/unidrop/internal/services"
)

// HubHandler serves hubs and their partner and vendor directories.
type HubHandler struct {
	directory *services.DirectoryService
}

func NewHubHandler(directory *services.DirectoryService) *HubHandler {
	return &HubHandler{directory: directory}
}

// Active lists the hubs offered in the storefront.
func (h *HubHandler) Active(w http.ResponseWriter, r *http.Request) {
	hubs, err := h.directory.ListHubs(r.Context(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, hubs)
}

func (h *HubHandler) List(w http.ResponseWriter, r *http.Request) {
	hubs, err := h.directory.ListHubs(r.Context(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, hubs)
}

func (h *HubHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	hub, err := h.directory.CreateHub(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, hub)
}

func (h *HubHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active *bool `json:"active"`
	}
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	if req.Active == nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"active": "required"})
		return
	}
	hub, err := h.directory.SetHubActive(r.Context(), r.PathValue("id"), *req.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, hub)
}

type contactRequest struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Type      string `json:"type"`
	Specialty string `json:"specialty"`
}

func (h *HubHandler) Partners(w http.ResponseWriter, r *http.Request) {
	hub, err := h.directory.ResolveHub(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	partners, err := h.directory.Partners(r.Context(), hub.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, partners)
}

func (h *HubHandler) AddPartner(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	p, err := h.directory.RegisterLogisticsPartner(r.Context(), r.PathValue("id"), req.Name, req.Contact, req.Type)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *HubHandler) Vendors(w http.ResponseWriter, r *http.Request) {
	hub, err := h.directory.ResolveHub(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	vendors, err := h.directory.Vendors(r.Context(), hub.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendors)
}

func (h *HubHandler) AddVendor(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	v, err := h.directory.RegisterVendor(r.Context(), r.PathValue("id"), req.Name, req.Contact, req.Specialty)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, v)
}
