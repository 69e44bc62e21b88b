package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/unihub/unidrop/internal/services"
	"github.com/unihub/unidrop/internal/store"
)

func TestStorefrontProducts_HidesPendingPitches(t *testing.T) {
	for name, st := range map[string]func(*testing.T) store.Store{
		"memory": func(*testing.T) store.Store { return store.NewMemory() },
		"gorm":   newSQLiteStore,
	} {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t, st(t))
			live := e.addProduct(t, "Rice Cooker", 100, services.OriginAdmin)
			e.addProduct(t, "Mini Fridge", 200, services.OriginScout)

			w := httptest.NewRecorder()
			e.storefront.Products(w, jsonRequest(http.MethodGet, "/api/storefront/products?hub=accra", ""))
			expectStatus(t, w, http.StatusOK)

			var items []storefrontItem
			decode(t, w, &items)
			if len(items) != 1 || items[0].ID != live.ID {
				t.Fatalf("expected only the approved product, got %+v", items)
			}
			if items[0].SellingPrice != 130 {
				t.Errorf("selling price = %v, want 130", items[0].SellingPrice)
			}
			if !strings.HasPrefix(items[0].WhatsAppURL, "https://wa.me/233200000000?text=") {
				t.Errorf("unexpected whatsapp url %q", items[0].WhatsAppURL)
			}
		})
	}
}

func TestStorefrontProducts_Filters(t *testing.T) {
	e := newTestEnv(t, store.NewMemory())
	e.addProduct(t, "Rice Cooker", 100, services.OriginAdmin)

	tests := []struct {
		query string
		code  int
		count int
	}{
		{"", http.StatusOK, 1},
		{"?hub=Kumasi", http.StatusOK, 0},
		{"?category=food", http.StatusOK, 0},
		{"?q=rice", http.StatusOK, 1},
		{"?hub=Nowhere", http.StatusBadRequest, 0},
		{"?category=weapons", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		e.storefront.Products(w, jsonRequest(http.MethodGet, "/api/storefront/products"+tt.query, ""))
		if w.Code != tt.code {
			t.Errorf("%s: expected %d got %d", tt.query, tt.code, w.Code)
			continue
		}
		if tt.code != http.StatusOK {
			continue
		}
		var items []storefrontItem
		decode(t, w, &items)
		if len(items) != tt.count {
			t.Errorf("%s: expected %d items got %d", tt.query, tt.count, len(items))
		}
	}
}

func TestStorefrontProduct_PendingIsNotFound(t *testing.T) {
	e := newTestEnv(t, store.NewMemory())
	pending := e.addProduct(t, "Mini Fridge", 200, services.OriginScout)
	live := e.addProduct(t, "Rice Cooker", 100, services.OriginAdmin)

	w := httptest.NewRecorder()
	e.storefront.Product(w, withID(jsonRequest(http.MethodGet, "/", ""), pending.ID))
	expectStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	e.storefront.Product(w, withID(jsonRequest(http.MethodGet, "/", ""), live.ID))
	expectStatus(t, w, http.StatusOK)
	var item storefrontItem
	decode(t, w, &item)
	if item.Name != "Rice Cooker" {
		t.Errorf("unexpected product %+v", item)
	}
}

func TestStorefrontSearch(t *testing.T) {
	e := newTestEnv(t, store.NewMemory())
	cooker := e.addProduct(t, "Rice Cooker", 100, services.OriginAdmin)
	e.addProduct(t, "Desk Lamp", 40, services.OriginAdmin)
	e.gateway.err = nil
	e.gateway.json = `{"matchingIds":["` + cooker.ID + `","not-a-product"]}`

	w := httptest.NewRecorder()
	e.storefront.Search(w, jsonRequest(http.MethodPost, "/api/storefront/search", `{"query":"something to cook with","hub":"Accra"}`))
	expectStatus(t, w, http.StatusOK)
	var res struct {
		Products []storefrontItem `json:"products"`
	}
	decode(t, w, &res)
	if len(res.Products) != 1 || res.Products[0].ID != cooker.ID {
		t.Fatalf("expected the rice cooker only, got %+v", res.Products)
	}

	// Blank queries never reach the model.
	w = httptest.NewRecorder()
	e.storefront.Search(w, jsonRequest(http.MethodPost, "/api/storefront/search", `{"query":"  "}`))
	expectStatus(t, w, http.StatusOK)
	if got := strings.TrimSpace(w.Body.String()); got != `{"products":[]}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestStorefrontRecommendations_FallBackWhenModelFails(t *testing.T) {
	e := newTestEnv(t, store.NewMemory())
	a := e.addProduct(t, "Rice Cooker", 100, services.OriginAdmin)
	e.addProduct(t, "Desk Lamp", 40, services.OriginAdmin)
	e.addProduct(t, "Mini Fridge", 200, services.OriginAdmin)

	w := httptest.NewRecorder()
	e.storefront.Recommendations(w, jsonRequest(http.MethodPost, "/api/storefront/recommendations",
		`{"product_ids":["`+a.ID+`"]}`))
	expectStatus(t, w, http.StatusOK)

	var res struct {
		Reason   string           `json:"reason"`
		Products []storefrontItem `json:"products"`
	}
	decode(t, w, &res)
	if res.Reason != services.RecommendationFallback {
		t.Errorf("reason = %q, want fallback", res.Reason)
	}
	if len(res.Products) != 2 {
		t.Fatalf("expected 2 fallback picks got %d", len(res.Products))
	}
	for _, p := range res.Products {
		if p.ID == a.ID {
			t.Errorf("cart item %s recommended back", a.ID)
		}
	}
}

func TestStorefrontSearch_RejectsUnknownFields(t *testing.T) {
	e := newTestEnv(t, store.NewMemory())
	w := httptest.NewRecorder()
	e.storefront.Search(w, jsonRequest(http.MethodPost, "/api/storefront/search", `{"query":"x","limit":3}`))
	expectStatus(t, w, http.StatusBadRequest)
	var body errorBody
	decode(t, w, &body)
	if body.Error != "invalid_json" {
		t.Errorf("error = %q, want invalid_json", body.Error)
	}
}
