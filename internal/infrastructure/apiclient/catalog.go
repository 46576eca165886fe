package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ecoshop/storefront/internal/core/domain"
)

// ListProducts returns the public catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: "GET /products",
		path:     "/products",
		out:      &out,
	})
	return out, err
}

// SearchProducts returns the catalog entries whose name matches name.
func (c *Client) SearchProducts(ctx context.Context, name string) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: "GET /products/search",
		path:     "/products/search",
		query:    url.Values{"name": {name}},
		out:      &out,
	})
	return out, err
}
