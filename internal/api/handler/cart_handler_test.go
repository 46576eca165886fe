package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

func sampleCart() ports.CartView {
	lines := []domain.CartLine{
		{ID: 1, Product: domain.Product{ID: 10, Name: "Bamboo Brush", Price: decimal.NewFromInt(10)}, Quantity: 2},
		{ID: 2, Product: domain.Product{ID: 11, Name: "Soap Bar", Price: decimal.NewFromInt(5)}, Quantity: 1},
	}
	return ports.CartView{Lines: lines, Total: domain.FormatMoney(domain.CartTotal(lines)), Seq: 1}
}

func TestCartHandler_View(t *testing.T) {
	h := NewCartHandler(&stubCart{view: sampleCart()}, newNotices())
	c, rec := newContext(http.MethodGet, "/cart", nil, customer)

	if err := h.View(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)

	var resp struct {
		Page string   `json:"page"`
		Data cartView `json:"data"`
	}
	decode(t, rec, &resp)
	if resp.Data.Total != "25.00" || len(resp.Data.Lines) != 2 {
		t.Fatalf("unexpected cart: %+v", resp.Data)
	}
	if resp.Data.Lines[0].Subtotal != "20.00" {
		t.Fatalf("unexpected subtotal %s", resp.Data.Lines[0].Subtotal)
	}
}

func TestCartHandler_Add_DefaultsQuantity(t *testing.T) {
	cart := &stubCart{view: sampleCart()}
	h := NewCartHandler(cart, newNotices())
	c, rec := newContext(http.MethodPost, "/cart/add", strings.NewReader(`{"productId":10}`), customer)

	if err := h.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)
	if len(cart.added) != 1 || cart.added[0] != [2]int64{10, 1} {
		t.Fatalf("unexpected add calls: %v", cart.added)
	}
	var resp actionResponse
	decode(t, rec, &resp)
	if resp.Banner == nil || resp.Banner.Message != "Product added to cart successfully!" {
		t.Fatalf("unexpected banner: %+v", resp.Banner)
	}
}

func TestCartHandler_Add_AdminIsRefused(t *testing.T) {
	cart := &stubCart{}
	h := NewCartHandler(cart, newNotices())
	c, _ := newContext(http.MethodPost, "/cart/add", strings.NewReader(`{"productId":10}`), admin)

	err := h.Add(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(cart.added) != 0 {
		t.Fatal("admin add must not reach the cart")
	}
}

func TestCartHandler_UpdateZeroIsPassedThrough(t *testing.T) {
	cart := &stubCart{view: sampleCart()}
	h := NewCartHandler(cart, newNotices())
	c, rec := newContext(http.MethodPut, "/cart/2", strings.NewReader(`{"quantity":0}`), customer)
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)
	if q, ok := cart.updated[2]; !ok || q != 0 {
		t.Fatalf("expected update of line 2 to 0, got %v", cart.updated)
	}
}

func TestCartHandler_Remove_BadID(t *testing.T) {
	h := NewCartHandler(&stubCart{}, newNotices())
	c, _ := newContext(http.MethodDelete, "/cart/x", nil, customer)
	c.SetParamNames("id")
	c.SetParamValues("x")

	err := h.Remove(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestCartHandler_Checkout(t *testing.T) {
	cart := &stubCart{view: ports.CartView{Total: "0.00"}, checkoutM: "Order placed successfully"}
	h := NewCartHandler(cart, newNotices())
	c, rec := newContext(http.MethodPost, "/cart/checkout", nil, customer)

	if err := h.Checkout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp actionResponse
	decode(t, rec, &resp)
	if resp.Redirect != "/orders" || resp.Banner == nil || resp.Banner.Message != "Order placed successfully" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCartHandler_Checkout_EmptyCart(t *testing.T) {
	cart := &stubCart{err: &domain.APIError{Status: http.StatusBadRequest, Message: "Cart is empty"}}
	h := NewCartHandler(cart, newNotices())
	c, _ := newContext(http.MethodPost, "/cart/checkout", nil, customer)

	err := h.Checkout(c)
	if got := domain.UserMessage(err, "x"); got != "Cart is empty" {
		t.Fatalf("expected server message, got %q", got)
	}
}
