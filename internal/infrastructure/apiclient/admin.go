package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// ListAllProducts returns every product, including inactive ones.
func (c *Client) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: "GET /admin/products",
		path:     "/admin/products",
		out:      &out,
	})
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "POST /admin/products",
		path:     "/admin/products",
		body:     in,
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, call{
		method:   http.MethodPut,
		endpoint: "PUT /admin/products/{id}",
		path:     idPath("/admin/products", id, ""),
		body:     in,
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a product, or deactivates it when orders reference
// it. The returned message says which one happened.
func (c *Client) DeleteProduct(ctx context.Context, id int64) (*ports.Ack, error) {
	var out ports.Ack
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		endpoint: "DELETE /admin/products/{id}",
		path:     idPath("/admin/products", id, ""),
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAllOrders returns the orders of every customer.
func (c *Client) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: "GET /admin/orders",
		path:     "/admin/orders",
		out:      &out,
	})
	return out, err
}

// UpdateOrderStatus sets an order's status. The backend takes the status as
// a query parameter.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*ports.Ack, error) {
	var out ports.Ack
	err := c.do(ctx, call{
		method:   http.MethodPut,
		endpoint: "PUT /admin/orders/{id}/status",
		path:     idPath("/admin/orders", id, "/status"),
		query:    url.Values{"status": {string(status)}},
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
