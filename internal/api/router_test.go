package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dibsly/dibs-api/internal/core/domain"
	"github.com/dibsly/dibs-api/internal/infrastructure/store/memory"
)

// The router registers its Prometheus middleware with the default registry,
// so it is built once and shared by every scenario below.
func newTestRouter(t *testing.T) *TestAPI {
	t.Helper()

	catalog := memory.NewCatalogRepository()
	items := []*domain.Item{
		{ID: 1, Name: "Widget", Description: "a widget", Price: decimal.RequireFromString("1.00"), Stock: 5},
		{ID: 2, Name: "Gadget", Description: "a gadget", Price: decimal.RequireFromString("10.50"), Stock: 3},
		{ID: 3, Name: "Doohickey", Description: "a doohickey", Price: decimal.RequireFromString("2.25"), Stock: 9},
		{ID: 7, Name: "Hex Bolt", Description: "m8 bolt", Price: decimal.RequireFromString("5.00"), Stock: 100},
	}
	for _, item := range items {
		if err := catalog.Insert(context.Background(), item); err != nil {
			t.Fatalf("seed item %d: %v", item.ID, err)
		}
	}

	e := NewRouter(Dependencies{
		Sessions: memory.NewSessionStore(0),
		Catalog:  catalog,
		Users:    memory.NewUserRepository(),
		Logger:   zerolog.Nop(),
	})
	return &TestAPI{t: t, e: e}
}

type TestAPI struct {
	t *testing.T
	e http.Handler
}

func (a *TestAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *TestAPI) login(username string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/login", "", `{"username":"`+username+`"}`)
	if rec.Code != http.StatusOK {
		a.t.Fatalf("login %s: expected 200, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token    string `json:"token"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		a.t.Fatalf("decode login response: %v", err)
	}
	if resp.Username != username || resp.Token == "" {
		a.t.Fatalf("unexpected login response: %+v", resp)
	}
	return resp.Token
}

type itemJSON struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Stock     int    `json:"stock"`
	ClaimedBy string `json:"claimed_by"`
}

func decodeItems(t *testing.T, rec *httptest.ResponseRecorder) []itemJSON {
	t.Helper()
	var items []itemJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode items: %v: %s", err, rec.Body.String())
	}
	return items
}

func decodeItem(t *testing.T, rec *httptest.ResponseRecorder) itemJSON {
	t.Helper()
	var item itemJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode item: %v: %s", err, rec.Body.String())
	}
	return item
}

func TestAPI_EndToEnd(t *testing.T) {
	api := newTestRouter(t)

	var aliceToken, bobToken string

	t.Run("login requires a username", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/login", "", `{"email":"x@example.com"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("login returns token and identity", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/login", "", `{"username":"alice"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Token    string `json:"token"`
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Username != "alice" || resp.Email != "alice" || resp.Token == "" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		aliceToken = resp.Token
	})

	t.Run("reads require a valid token", func(t *testing.T) {
		if rec := api.do(http.MethodGet, "/products", "", ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", rec.Code)
		}
		if rec := api.do(http.MethodGet, "/products", "bogus", ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 with bogus token, got %d", rec.Code)
		}
	})

	t.Run("search filters by substring", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/products?search=bolt", aliceToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		items := decodeItems(t, rec)
		if len(items) != 1 || items[0].Name != "Hex Bolt" {
			t.Fatalf("expected [Hex Bolt], got %+v", items)
		}
	})

	t.Run("sort by price descending", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/products?sort_by=price&sort_order=desc", aliceToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		items := decodeItems(t, rec)
		want := []string{"Gadget", "Hex Bolt", "Doohickey", "Widget"}
		if len(items) != len(want) {
			t.Fatalf("expected %d items, got %d", len(want), len(items))
		}
		for i := range want {
			if items[i].Name != want[i] {
				t.Fatalf("position %d: expected %s, got %s", i, want[i], items[i].Name)
			}
		}
	})

	t.Run("unknown sort field is rejected", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/products?sort_by=weight", aliceToken, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("first claim wins", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/products/7/select", aliceToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if item := decodeItem(t, rec); item.ClaimedBy != "alice" {
			t.Fatalf("expected claimed_by alice, got %+v", item)
		}
	})

	t.Run("second claimant gets 409 with holder", func(t *testing.T) {
		bobToken = api.login("bob")
		rec := api.do(http.MethodPost, "/products/7/select", bobToken, "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Error     string `json:"error"`
			ClaimedBy string `json:"claimed_by"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.ClaimedBy != "alice" {
			t.Fatalf("expected claimed_by alice, got %+v", resp)
		}
	})

	t.Run("claim state is visible on reads", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/products/7", aliceToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if item := decodeItem(t, rec); item.ClaimedBy != "alice" {
			t.Fatalf("expected claimed_by alice, got %+v", item)
		}
	})

	t.Run("holder toggles the claim off", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/products/7/select", aliceToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if item := decodeItem(t, rec); item.ClaimedBy != "" {
			t.Fatalf("expected item free after toggle, got %+v", item)
		}
	})

	t.Run("freed item can be claimed by another user", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/products/7/select", bobToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if item := decodeItem(t, rec); item.ClaimedBy != "bob" {
			t.Fatalf("expected claimed_by bob, got %+v", item)
		}
	})

	t.Run("unknown and malformed ids are 404", func(t *testing.T) {
		if rec := api.do(http.MethodPost, "/products/99/select", aliceToken, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
		}
		if rec := api.do(http.MethodPost, "/products/abc/select", aliceToken, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for malformed id, got %d", rec.Code)
		}
	})

	t.Run("logout revokes the token and frees claims", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/logout", bobToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		// Bob's claim on item 7 is released.
		rec = api.do(http.MethodGet, "/products/7", aliceToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if item := decodeItem(t, rec); item.ClaimedBy != "" {
			t.Fatalf("expected item free after holder logout, got %+v", item)
		}

		// Bob's token no longer works.
		if rec := api.do(http.MethodGet, "/products", bobToken, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %d", rec.Code)
		}
	})

	t.Run("health probes", func(t *testing.T) {
		if rec := api.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from liveness, got %d", rec.Code)
		}
		// In-memory backends: readiness has no dependencies to ping.
		if rec := api.do(http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from readiness, got %d", rec.Code)
		}
	})
}
