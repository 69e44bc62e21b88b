package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"strings"
	"testing"

	"github.com/unihub/unidrop/internal/db"
	"github.com/unihub/unidrop/internal/messaging"
	"github.com/unihub/unidrop/internal/policy"
	"github.com/unihub/unidrop/internal/scout"
	"github.com/unihub/unidrop/internal/settings"
	"github.com/unihub/unidrop/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *messaging.Memory) {
	t.Helper()
	st := store.NewMemory()
	defaults := settings.Defaults{
		StoreName: "UniHub", ContactNumber: "233200000000", Currency: "GHS",
		DefaultMarkupPercent: 30, Hubs: []string{"Accra", "Kumasi"},
	}
	if err := db.Seed(context.Background(), st, defaults, db.Admin{Email: "admin@unihub.local", Password: "s3cret"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	idents, err := scout.OpenBadger("")
	if err != nil {
		t.Fatalf("badger: %v", err)
	}
	t.Cleanup(func() { _ = idents.Close() })

	events := &messaging.Memory{}
	cfg := policy.NewRouterConfig(policy.Deps{
		Store:     st,
		Publisher: events,
		Scouts:    idents,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	srv := httptest.NewServer(withRecover(NewApp(cfg)))
	t.Cleanup(srv.Close)
	return srv, events
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func call(t *testing.T, c *http.Client, method, url, body string, out any) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthRoutes(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)
	for _, path := range []string{"/health", "/healthz"} {
		if code := call(t, c, http.MethodGet, srv.URL+path, "", nil); code != http.StatusOK {
			t.Errorf("%s: expected 200 got %d", path, code)
		}
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)

	if code := call(t, c, http.MethodGet, srv.URL+"/api/admin/products", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", code)
	}
	if code := call(t, c, http.MethodPost, srv.URL+"/login", `{"email":"admin@unihub.local","password":"s3cret"}`, nil); code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d", code)
	}
	if code := call(t, c, http.MethodGet, srv.URL+"/api/admin/products", "", nil); code != http.StatusOK {
		t.Fatalf("expected 200 after login got %d", code)
	}
	if code := call(t, c, http.MethodPost, srv.URL+"/logout", "", nil); code != http.StatusNoContent {
		t.Fatalf("logout: expected 204 got %d", code)
	}
	if code := call(t, c, http.MethodGet, srv.URL+"/api/admin/settings", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout got %d", code)
	}
}

func TestPitchApprovalFlow(t *testing.T) {
	srv, events := newTestServer(t)
	scoutClient := newClient(t)
	adminClient := newClient(t)

	var me struct {
		Name string `json:"name"`
	}
	if code := call(t, scoutClient, http.MethodPost, srv.URL+"/api/scout/register", `{"name":"Kwame"}`, &me); code != http.StatusCreated {
		t.Fatalf("register: %d", code)
	}
	if code := call(t, scoutClient, http.MethodGet, srv.URL+"/api/scout/me", "", &me); code != http.StatusOK || me.Name != "Kwame" {
		t.Fatalf("me: %d %+v", code, me)
	}

	var pitched struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	code := call(t, scoutClient, http.MethodPost, srv.URL+"/api/scout/pitches",
		`{"name":"Desk Fan","category":"electronics","hub":"Kumasi","source_price":100}`, &pitched)
	if code != http.StatusCreated || pitched.Status != "pending" {
		t.Fatalf("pitch: %d %+v", code, pitched)
	}

	var items []map[string]any
	call(t, scoutClient, http.MethodGet, srv.URL+"/api/storefront/products?hub=Kumasi", "", &items)
	if len(items) != 0 {
		t.Fatalf("pending pitch visible in storefront: %v", items)
	}

	call(t, adminClient, http.MethodPost, srv.URL+"/login", `{"email":"admin@unihub.local","password":"s3cret"}`, nil)
	if code := call(t, adminClient, http.MethodPost, srv.URL+"/api/admin/products/"+pitched.ID+"/approve", "", nil); code != http.StatusNoContent {
		t.Fatalf("approve: %d", code)
	}

	call(t, scoutClient, http.MethodGet, srv.URL+"/api/storefront/products?hub=Kumasi", "", &items)
	if len(items) != 1 || items[0]["id"] != pitched.ID {
		t.Fatalf("approved pitch missing from storefront: %v", items)
	}
	if items[0]["selling_price"] != 130.0 {
		t.Errorf("selling_price = %v, want 130", items[0]["selling_price"])
	}

	topics := events.Topics()
	want := []string{messaging.TopicProductSubmitted, messaging.TopicProductApproved}
	if len(topics) != len(want) || topics[0] != want[0] || topics[1] != want[1] {
		t.Errorf("topics = %v, want %v", topics, want)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := withRecover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal_error") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
