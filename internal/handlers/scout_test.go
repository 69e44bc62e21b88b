package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unihub/unidrop/internal/pricing"
	"github.com/unihub/unidrop/internal/scout"
	"github.com/unihub/unidrop/internal/store"
)

// registerScout returns the signed cookie issued for name.
func registerScout(t *testing.T, e *testEnv, name string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	e.scouts.Register(w, jsonRequest(http.MethodPost, "/api/scout/register", `{"name":"`+name+`"}`))
	expectStatus(t, w, http.StatusCreated)
	for _, c := range w.Result().Cookies() {
		if c.Name == scout.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", scout.CookieName)
	return nil
}

func TestScoutRegisterAndMe(t *testing.T) {
	e := newTestEnv(t, store.NewMemory())
	cookie := registerScout(t, e, "  Kojo ")

	req := jsonRequest(http.MethodGet, "/api/scout/me", "")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	e.scouts.Me(w, req)
	expectStatus(t, w, http.StatusOK)
	var me struct {
		Name string `json:"name"`
	}
	decode(t, w, &me)
	if me.Name != "Kojo" {
		t.Errorf("name = %q, want Kojo", me.Name)
	}
}

func TestScoutMe_UnknownScout(t *testing.T) {
	e := newTestEnv(t, store.NewMemory())

	w := httptest.NewRecorder()
	e.scouts.Me(w, jsonRequest(http.MethodGet, "/api/scout/me", ""))
	expectStatus(t, w, http.StatusUnauthorized)

	// A tampered cookie is treated like no cookie.
	req := jsonRequest(http.MethodGet, "/api/scout/me", "")
	req.AddCookie(&http.Cookie{Name: scout.CookieName, Value: "forged.token"})
	w = httptest.NewRecorder()
	e.scouts.Me(w, req)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestScoutRegister_BlankName(t *testing.T) {
	e := newTestEnv(t, store.NewMemory())
	w := httptest.NewRecorder()
	e.scouts.Register(w, jsonRequest(http.MethodPost, "/api/scout/register", `{"name":"   "}`))
	expectStatus(t, w, http.StatusBadRequest)
	var body errorBody
	decode(t, w, &body)
	if body.field("name") != "required" {
		t.Errorf("details = %v", body.Details)
	}
}

func TestScoutQuote_UsesDefaultMarkup(t *testing.T) {
	e := newTestEnv(t, store.NewMemory())
	w := httptest.NewRecorder()
	e.scouts.Quote(w, jsonRequest(http.MethodPost, "/api/scout/quote", `{"source_cost":101}`))
	expectStatus(t, w, http.StatusOK)
	var q pricing.Quote
	decode(t, w, &q)
	if q.SellingPrice != 132 || q.MarkupPercent != 30 {
		t.Errorf("unexpected quote %+v", q)
	}
}

func TestScoutPitch(t *testing.T) {
	e := newTestEnv(t, newSQLiteStore(t))
	body := `{"name":"Desk Fan","category":"electronics","hub":"Accra","source_price":100,"selling_price":999}`

	w := httptest.NewRecorder()
	e.scouts.Pitch(w, jsonRequest(http.MethodPost, "/api/scout/pitches", body))
	expectStatus(t, w, http.StatusUnauthorized)

	req := jsonRequest(http.MethodPost, "/api/scout/pitches", body)
	req.AddCookie(registerScout(t, e, "Abena"))
	w = httptest.NewRecorder()
	e.scouts.Pitch(w, req)
	expectStatus(t, w, http.StatusCreated)

	var got productView
	decode(t, w, &got)
	if got.Status != "pending" {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.SellingPrice != 130 {
		t.Errorf("selling price = %v, want 130 from the default markup", got.SellingPrice)
	}
	if got.SubmittedBy != "Abena" {
		t.Errorf("submitted_by = %q", got.SubmittedBy)
	}

	stored, err := e.store.GetProduct(req.Context(), got.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if stored.IsApproved == nil || *stored.IsApproved {
		t.Errorf("stored product should be pending, got %v", stored.IsApproved)
	}
	if stored.HubID != e.accra.ID {
		t.Errorf("hub = %s, want %s", stored.HubID, e.accra.ID)
	}
}
