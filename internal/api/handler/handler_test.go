package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/api/middleware"
	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
	"github.com/ecoshop/storefront/internal/core/service"
)

var (
	anonymous = domain.Session{State: domain.StateAnonymous}
	customer  = domain.Session{
		State:      domain.StateAuthenticated,
		Credential: "tok-c",
		Identity:   domain.Identity{Username: "carol", Role: domain.RoleCustomer},
	}
	admin = domain.Session{
		State:      domain.StateAuthenticated,
		Credential: "tok-a",
		Identity:   domain.Identity{Username: "alice", Role: domain.RoleAdmin},
	}
)

func newNotices() *service.Notices {
	return service.NewNotices(time.Minute)
}

// newContext builds an echo context as the guard would hand it to a handler.
func newContext(method, target string, body io.Reader, s domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.SessionKey, s)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
}

// --- stubs ---

type stubAuthService struct {
	signInFn   func(ctx context.Context, username, password string) (domain.Session, error)
	registerFn func(ctx context.Context, in ports.SignUpInput) (domain.Session, string, error)
}

func (s *stubAuthService) SignIn(ctx context.Context, username, password string) (domain.Session, error) {
	return s.signInFn(ctx, username, password)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.SignUpInput) (string, error) {
	_, msg, err := s.registerFn(ctx, in)
	return msg, err
}

func (s *stubAuthService) RegisterAndSignIn(ctx context.Context, in ports.SignUpInput) (domain.Session, string, error) {
	return s.registerFn(ctx, in)
}

type stubSessions struct {
	current    domain.Session
	logoutHits int
}

func (s *stubSessions) Snapshot() domain.Session                          { return s.current }
func (s *stubSessions) Hydrate(context.Context) domain.Session            { return s.current }
func (s *stubSessions) WaitReady(context.Context) (domain.Session, error) { return s.current, nil }
func (s *stubSessions) Login(_ context.Context, cred string, id domain.Identity) (domain.Session, error) {
	s.current = domain.Session{State: domain.StateAuthenticated, Credential: cred, Identity: id}
	return s.current, nil
}
func (s *stubSessions) Logout(context.Context) domain.Session {
	s.logoutHits++
	s.current = anonymous
	return s.current
}

type stubCatalog struct {
	searchFn func(ctx context.Context, term string) ([]domain.Product, error)
}

func (s *stubCatalog) List(ctx context.Context) ([]domain.Product, error) {
	return s.searchFn(ctx, "")
}

func (s *stubCatalog) Search(ctx context.Context, term string) ([]domain.Product, error) {
	return s.searchFn(ctx, term)
}

type stubCart struct {
	view      ports.CartView
	err       error
	added     [][2]int64
	updated   map[int64]int
	removed   []int64
	checkoutM string
}

func (s *stubCart) Refresh(context.Context) (ports.CartView, error) { return s.view, s.err }
func (s *stubCart) Cached() ports.CartView                          { return s.view }
func (s *stubCart) Add(_ context.Context, productID int64, quantity int) (ports.CartView, error) {
	s.added = append(s.added, [2]int64{productID, int64(quantity)})
	return s.view, s.err
}
func (s *stubCart) UpdateQuantity(_ context.Context, lineID int64, quantity int) (ports.CartView, error) {
	if s.updated == nil {
		s.updated = map[int64]int{}
	}
	s.updated[lineID] = quantity
	return s.view, s.err
}
func (s *stubCart) Remove(_ context.Context, lineID int64) (ports.CartView, error) {
	s.removed = append(s.removed, lineID)
	return s.view, s.err
}
func (s *stubCart) Checkout(context.Context) (string, ports.CartView, error) {
	return s.checkoutM, s.view, s.err
}

type stubAdmin struct {
	products  []domain.Product
	orders    []domain.Order
	created   *ports.ProductInput
	deleteMsg string
	statusFn  func(id int64, status string) (string, error)
	err       error
}

func (s *stubAdmin) Products(context.Context) ([]domain.Product, error) { return s.products, s.err }
func (s *stubAdmin) CreateProduct(_ context.Context, in ports.ProductInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &in
	return &domain.Product{ID: 1, Name: in.Name, Price: in.Price, Stock: in.Stock}, nil
}
func (s *stubAdmin) UpdateProduct(_ context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: id, Name: in.Name, Price: in.Price, Stock: in.Stock}, nil
}
func (s *stubAdmin) DeleteProduct(context.Context, int64) (string, error) { return s.deleteMsg, s.err }
func (s *stubAdmin) Orders(context.Context) ([]domain.Order, error)       { return s.orders, s.err }
func (s *stubAdmin) SetOrderStatus(_ context.Context, id int64, status string) (string, error) {
	return s.statusFn(id, status)
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
