package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// SignIn exchanges username and password for an access token.
func (c *Client) SignIn(ctx context.Context, in ports.SignInInput) (*ports.SignInResult, error) {
	var out ports.SignInResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "POST /auth/signin",
		path:     "/auth/signin",
		body:     in,
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp registers a new customer account.
func (c *Client) SignUp(ctx context.Context, in ports.SignUpInput) (*ports.Ack, error) {
	var out ports.Ack
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "POST /auth/signup",
		path:     "/auth/signup",
		body:     in,
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type meResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Me returns the identity behind the attached credential.
func (c *Client) Me(ctx context.Context) (*domain.Identity, error) {
	var out meResponse
	err := c.do(ctx, call{
		method:   http.MethodGet,
		endpoint: "GET /auth/me",
		path:     "/auth/me",
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(out.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: role %q: %w", domain.ErrUnexpected, out.Role, err)
	}
	if out.Username == "" {
		return nil, fmt.Errorf("%w: identity without username", domain.ErrUnexpected)
	}
	return &domain.Identity{
		ID:       out.ID,
		Username: out.Username,
		Email:    out.Email,
		Role:     role,
	}, nil
}
