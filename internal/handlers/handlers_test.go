package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/unihub/unidrop/internal/ai"
	"github.com/unihub/unidrop/internal/db"
	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/scout"
	"github.com/unihub/unidrop/internal/services"
	"github.com/unihub/unidrop/internal/store"
)

// stubGateway answers every JSON call with the same document.
type stubGateway struct {
	json string
	err  error
}

func (g *stubGateway) CompleteText(context.Context, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return "generated text", nil
}

func (g *stubGateway) CompleteJSON(_ context.Context, _ string, _ ai.Schema, out any) error {
	if g.err != nil {
		return g.err
	}
	return json.Unmarshal([]byte(g.json), out)
}

type testEnv struct {
	store      store.Store
	gateway    *stubGateway
	catalog    *services.CatalogService
	orders     *services.OrderService
	directory  *services.DirectoryService
	products   *ProductHandler
	orderH     *OrderHandler
	hubs       *HubHandler
	storefront *StorefrontHandler
	scouts     *ScoutHandler
	settings   *SettingsHandler
	accra      *models.Hub
}

func newTestEnv(t *testing.T, st store.Store) *testEnv {
	t.Helper()
	ctx := context.Background()
	if err := st.SaveSettings(ctx, &models.BusinessSettings{
		StoreName: "UniHub", ContactNumber: "+233 20 000 0000", Currency: "GHS", DefaultMarkupPercent: 30,
	}); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hooks := &services.Hooks{Logger: logger}
	gw := &stubGateway{err: ai.ErrDisabled}
	settingsSvc := services.NewSettingsService(st)
	catalog := services.NewCatalogService(st, settingsSvc, hooks)
	orders := services.NewOrderService(st, hooks)
	directory := services.NewDirectoryService(st)
	assistant := services.NewAssistant(gw, logger)

	idents, err := scout.OpenBadger("")
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = idents.Close() })

	accra, err := directory.CreateHub(ctx, "Accra")
	if err != nil {
		t.Fatalf("create hub: %v", err)
	}
	if _, err := directory.CreateHub(ctx, "Kumasi"); err != nil {
		t.Fatalf("create hub: %v", err)
	}

	return &testEnv{
		store:      st,
		gateway:    gw,
		catalog:    catalog,
		orders:     orders,
		directory:  directory,
		products:   NewProductHandler(catalog, settingsSvc, assistant),
		orderH:     NewOrderHandler(orders, directory, assistant),
		hubs:       NewHubHandler(directory),
		storefront: NewStorefrontHandler(catalog, settingsSvc, assistant),
		scouts:     NewScoutHandler(scout.NewRegistry(idents), catalog),
		settings:   NewSettingsHandler(settingsSvc),
		accra:      accra,
	}
}

func newSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	gdb, err := db.OpenSQLite("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared", nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.NewGorm(gdb)
}

// addProduct submits a product through the catalog service.
func (e *testEnv) addProduct(t *testing.T, name string, source float64, origin services.Origin) *models.Product {
	t.Helper()
	p, err := e.catalog.Submit(context.Background(), services.ProductInput{
		Name: name, Category: "electronics", Hub: "Accra", SourcePrice: &source, SubmittedBy: "Ama",
	}, origin)
	if err != nil {
		t.Fatalf("submit %s: %v", name, err)
	}
	return p
}

func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withID(req *http.Request, id string) *http.Request {
	req.SetPathValue("id", id)
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected %d got %d: %s", want, w.Code, w.Body.String())
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details"`
}

// field returns the violation code for key, or "" when details is not a
// violation map.
func (b errorBody) field(key string) string {
	m, ok := b.Details.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
