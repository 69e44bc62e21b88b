package handlers

import (
	"net/http"

	"github.com/unihub/unidrop/httpx"
	"github.com/unihub/unidrop/internal/services"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Public returns what the storefront needs to render prices and links.
func (h *SettingsHandler) Public(w http.ResponseWriter, r *http.Request) {
	pub, err := h.settings.Public(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, pub)
}

// Get returns the full settings row.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	bs, err := h.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

// Update replaces the settings row.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.SettingsInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		badJSON(w, err)
		return
	}
	bs, err := h.settings.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}
