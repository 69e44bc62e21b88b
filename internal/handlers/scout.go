package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/unihub/unidrop/httpx"
	"github.com/unihub/unidrop/internal/scout"
	"github.com/unihub/unidrop/internal/services"
)

// ScoutHandler lets students pitch products for approval.
type ScoutHandler struct {
	registry *scout.Registry
	catalog  *services.CatalogService
}

func NewScoutHandler(registry *scout.Registry, catalog *services.CatalogService) *ScoutHandler {
	return &ScoutHandler{registry: registry, catalog: catalog}
}

// Register stores the scout name and hands out the scout cookie.
func (h *ScoutHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
		return
	}
	token, err := h.registry.Register(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	scout.SetCookie(w, token)
	httpx.JSON(w, http.StatusCreated, map[string]string{"name": name})
}

// current resolves the scout behind the request cookie.
func (h *ScoutHandler) current(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := h.registry.Lookup(r.Context(), scout.TokenFromRequest(r))
	if errors.Is(err, scout.ErrUnknownScout) {
		httpx.JSONError(w, http.StatusUnauthorized, "unknown_scout", nil)
		return "", false
	}
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	return name, true
}

// Me returns the remembered scout so the client can skip registration.
func (h *ScoutHandler) Me(w http.ResponseWriter, r *http.Request) {
	name, ok := h.current(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"name": name})
}

// Quote prices a source cost at the store's default markup.
func (h *ScoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceCost float64 `json:"source_cost"`
	}
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	q, err := h.catalog.Quote(r.Context(), req.SourceCost, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

// Pitch submits a pending product. The selling price always comes from
// the source cost and the default markup.
func (h *ScoutHandler) Pitch(w http.ResponseWriter, r *http.Request) {
	name, ok := h.current(w, r)
	if !ok {
		return
	}
	var in services.ProductInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		badJSON(w, err)
		return
	}
	in.SellingPrice = nil
	in.MarkupPercent = nil
	in.SubmittedBy = name
	p, err := h.catalog.Submit(r.Context(), in, services.OriginScout)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewProduct(*p))
}
