package apiclient

import (
	"context"
	"net/http"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// Checkout turns the cart into an order.
func (c *Client) Checkout(ctx context.Context) (*ports.Ack, error) {
	var out ports.Ack
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "POST /orders/checkout",
		path:     "/orders/checkout",
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders returns the caller's orders, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: "GET /orders",
		path:     "/orders",
		out:      &out,
	})
	return out, err
}
