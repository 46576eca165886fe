package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/service"
	"github.com/ecoshop/storefront/internal/infrastructure/apiclient"
	"github.com/ecoshop/storefront/internal/infrastructure/credstore"
	"github.com/ecoshop/storefront/internal/infrastructure/http/handlers"
	"github.com/ecoshop/storefront/internal/infrastructure/queue"
)

// fakeBackend serves the storefront REST API for two known accounts.
type fakeBackend struct {
	mu   sync.Mutex
	cart []map[string]any
}

var accounts = map[string]map[string]any{
	"tok-admin": {"id": 1, "username": "alice", "email": "a@example.com", "role": "ADMIN"},
	"tok-cust":  {"id": 2, "username": "carol", "email": "c@example.com", "role": "USER"},
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	who, authed := accounts[token]
	w.Header().Set("Content-Type", "application/json")

	reply := func(code int, v any) {
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(v)
	}

	switch {
	case r.URL.Path == "/api/auth/signin":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		for tok, acc := range accounts {
			if acc["username"] == body["username"] && body["password"] == "secret" {
				reply(http.StatusOK, map[string]string{"accessToken": tok, "tokenType": "Bearer"})
				return
			}
		}
		reply(http.StatusUnauthorized, map[string]any{"success": false, "message": "Bad credentials"})
	case r.URL.Path == "/api/products":
		reply(http.StatusOK, []map[string]any{
			{"id": 10, "name": "Bamboo Brush", "price": 10, "stock": 5},
			{"id": 11, "name": "Soap Bar", "price": 5, "stock": 0},
		})
	case !authed:
		reply(http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
	case r.URL.Path == "/api/auth/me":
		reply(http.StatusOK, who)
	case r.URL.Path == "/api/cart" && r.Method == http.MethodGet:
		f.mu.Lock()
		defer f.mu.Unlock()
		reply(http.StatusOK, f.cart)
	case r.URL.Path == "/api/cart/add":
		var body struct {
			ProductID int64 `json:"productId"`
			Quantity  int   `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.cart = append(f.cart, map[string]any{
			"id":       len(f.cart) + 1,
			"product":  map[string]any{"id": body.ProductID, "name": "Bamboo Brush", "price": 10},
			"quantity": body.Quantity,
		})
		f.mu.Unlock()
		reply(http.StatusOK, map[string]any{"success": true, "message": "Product added to cart successfully"})
	case strings.HasPrefix(r.URL.Path, "/api/admin/") && who["role"] != "ADMIN":
		reply(http.StatusForbidden, map[string]any{"success": false, "message": "Access Denied"})
	case r.URL.Path == "/api/admin/products":
		reply(http.StatusOK, []map[string]any{{"id": 10, "name": "Bamboo Brush", "price": 10, "stock": 5, "active": true}})
	case r.URL.Path == "/api/admin/orders":
		reply(http.StatusOK, []map[string]any{})
	default:
		reply(http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
	}
}

type testApp struct {
	e        *echo.Echo
	sessions *service.SessionStore
	creds    *credstore.MemoryStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	backend := httptest.NewServer(&fakeBackend{})
	t.Cleanup(backend.Close)

	log := zerolog.Nop()
	client := apiclient.New(backend.URL+"/api", log)
	creds := credstore.NewMemoryStore()
	sessions := service.NewSessionStore(creds, client, client, log)
	client.SetUnauthorizedHandler(sessions.HandleUnauthorized)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	lanes := queue.NewDispatcher(2, log)
	lanes.Start(ctx)

	notices := service.NewNotices(time.Minute)
	cart := service.NewCartService(client, client, lanes, log)
	sessions.OnCredentialChange(cart.Reset)
	e := NewRouter(Deps{
		Sessions: sessions,
		Guard:    service.NewRouteGuard(sessions, log),
		Auth:     service.NewAuthService(client, sessions),
		Catalog:  service.NewCatalogService(client, log),
		Cart:     cart,
		Orders:   service.NewOrderService(client),
		Admin:    service.NewAdminService(client, log),
		Notices:  notices,
		Health:   map[string]handlers.Pinger{"storefront_api": client},
		Log:      log,
	})
	return &testApp{e: e, sessions: sessions, creds: creds}
}

func (a *testApp) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_DefersWhileLoading(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/login", "/cart", "/admin"} {
		rec := app.do(http.MethodGet, path, "")
		if rec.Code != http.StatusAccepted {
			t.Fatalf("%s: expected 202 while loading, got %d", path, rec.Code)
		}
		if rec.Header().Get(echo.HeaderLocation) != "" {
			t.Fatalf("%s: must not redirect while loading", path)
		}
	}
}

func TestRouter_AnonymousNavigation(t *testing.T) {
	app := newTestApp(t)
	app.sessions.Hydrate(context.Background())

	cases := []struct {
		path     string
		wantCode int
		wantLoc  string
	}{
		{"/", http.StatusOK, ""},
		{"/login", http.StatusOK, ""},
		{"/register", http.StatusOK, ""},
		{"/cart", http.StatusSeeOther, "/login"},
		{"/orders", http.StatusSeeOther, "/login"},
		{"/admin", http.StatusSeeOther, "/login"},
	}
	for _, tc := range cases {
		rec := app.do(http.MethodGet, tc.path, "")
		if rec.Code != tc.wantCode {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.wantCode, rec.Code)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != tc.wantLoc {
			t.Fatalf("%s: expected location %q, got %q", tc.path, tc.wantLoc, loc)
		}
	}
}

func TestRouter_AnonymousAddToCartGetsBanner(t *testing.T) {
	app := newTestApp(t)
	app.sessions.Hydrate(context.Background())

	rec := app.do(http.MethodPost, "/cart/add", `{"productId":10}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Banner == nil || resp.Banner.Message != "Please login to add items to cart" || resp.Redirect != "/login" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestRouter_CustomerFlow(t *testing.T) {
	app := newTestApp(t)
	app.sessions.Hydrate(context.Background())

	rec := app.do(http.MethodPost, "/login", `{"username":"carol","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	s := app.sessions.Snapshot()
	if !s.IsCustomer() || s.Identity.Username != "carol" {
		t.Fatalf("expected customer session, got %+v", s)
	}

	if rec := app.do(http.MethodGet, "/login", ""); rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("login page must redirect home when authenticated, got %d", rec.Code)
	}
	rec = app.do(http.MethodGet, "/admin", "")
	if rec.Code != http.StatusForbidden || rec.Header().Get(echo.HeaderLocation) != "" {
		t.Fatalf("customer on /admin must reach the page and get the backend refusal, got %d", rec.Code)
	}
	var denied errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &denied)
	if denied.Banner == nil || denied.Banner.Message != "Access Denied" {
		t.Fatalf("expected the backend refusal as a banner, got %+v", denied)
	}

	rec = app.do(http.MethodPost, "/cart/add", `{"productId":10,"quantity":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.do(http.MethodGet, "/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cart: expected 200, got %d", rec.Code)
	}
	var page struct {
		Data struct {
			Total string `json:"total"`
		} `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &page)
	if page.Data.Total != "20.00" {
		t.Fatalf("expected total 20.00, got %q", page.Data.Total)
	}

	rec = app.do(http.MethodPost, "/logout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if _, err := app.creds.Load(context.Background()); err == nil {
		t.Fatal("credential must be cleared on logout")
	}
	if rec := app.do(http.MethodGet, "/cart", ""); rec.Code != http.StatusSeeOther {
		t.Fatalf("cart after logout must redirect, got %d", rec.Code)
	}
}

func TestRouter_AdminRendersAdmin(t *testing.T) {
	app := newTestApp(t)
	app.sessions.Hydrate(context.Background())

	if _, err := app.sessions.Login(context.Background(), "tok-admin", domain.Identity{Username: "alice", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("login: %v", err)
	}
	rec := app.do(http.MethodGet, "/admin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_DismissBanner(t *testing.T) {
	app := newTestApp(t)
	app.sessions.Hydrate(context.Background())

	if rec := app.do(http.MethodPost, "/cart/add", `{"productId":10}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	type page struct {
		Banner *domain.Banner `json:"banner"`
	}
	var before page
	_ = json.Unmarshal(app.do(http.MethodGet, "/", "").Body.Bytes(), &before)
	if before.Banner == nil {
		t.Fatal("expected the error banner on the next page")
	}

	if rec := app.do(http.MethodDelete, "/banner", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("dismiss: expected 204, got %d", rec.Code)
	}
	var after page
	rec := app.do(http.MethodGet, "/", "")
	_ = json.Unmarshal(rec.Body.Bytes(), &after)
	if rec.Code != http.StatusOK || after.Banner != nil {
		t.Fatalf("banner must be gone after dismiss, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginFailureShowsServerMessage(t *testing.T) {
	app := newTestApp(t)
	app.sessions.Hydrate(context.Background())

	rec := app.do(http.MethodPost, "/login", `{"username":"carol","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "Bad credentials" {
		t.Fatalf("expected server message, got %q", resp.Error)
	}
	if app.sessions.Snapshot().Authenticated() {
		t.Fatal("failed login must not authenticate")
	}
}

func TestRouter_SessionAndOps(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/session", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"state":"loading"`) {
		t.Fatalf("unexpected /session: %d %s", rec.Code, rec.Body.String())
	}
	if rec := app.do(http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	if rec := app.do(http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "storefront_") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}
