package apiclient

import (
	"context"
	"net/http"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

type addToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the lines of the caller's cart.
func (c *Client) GetCart(ctx context.Context) ([]domain.CartLine, error) {
	var out []domain.CartLine
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: "GET /cart",
		path:     "/cart",
		out:      &out,
	})
	return out, err
}

// AddToCart adds quantity units of a product. The backend merges into an
// existing line for the same product.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) (*ports.Ack, error) {
	var out ports.Ack
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "POST /cart/add",
		path:     "/cart/add",
		body:     addToCartRequest{ProductID: productID, Quantity: quantity},
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCartLine sets the quantity of a line.
func (c *Client) UpdateCartLine(ctx context.Context, lineID int64, quantity int) (*ports.Ack, error) {
	var out ports.Ack
	err := c.do(ctx, call{
		method:   http.MethodPut,
		endpoint: "PUT /cart/{id}",
		path:     idPath("/cart", lineID, ""),
		body:     quantityRequest{Quantity: quantity},
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCartLine deletes a line.
func (c *Client) RemoveCartLine(ctx context.Context, lineID int64) (*ports.Ack, error) {
	var out ports.Ack
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		endpoint: "DELETE /cart/{id}",
		path:     idPath("/cart", lineID, ""),
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
