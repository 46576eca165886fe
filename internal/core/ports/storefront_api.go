package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ecoshop/storefront/internal/core/domain"
)

// CredentialBinder attaches or detaches the bearer credential used on every
// outbound call.
type CredentialBinder interface {
	SetCredential(credential string)
	ClearCredential()
}

// SignInInput is the body of POST /auth/signin.
type SignInInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignInResult is the sign-in response. Username and Role are optional and
// only echo the client input; the session re-fetches /auth/me.
type SignInResult struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType,omitempty"`
	Username    string `json:"username,omitempty"`
	Role        string `json:"role,omitempty"`
}

// SignUpInput is the body of POST /auth/signup.
type SignUpInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Ack is the backend's generic {success, message} envelope.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// AuthAPI covers the /auth endpoints.
type AuthAPI interface {
	SignIn(ctx context.Context, in SignInInput) (*SignInResult, error)
	SignUp(ctx context.Context, in SignUpInput) (*Ack, error)
	Me(ctx context.Context) (*domain.Identity, error)
}

// CatalogAPI covers the public product endpoints.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SearchProducts(ctx context.Context, name string) ([]domain.Product, error)
}

// CartAPI covers the /cart endpoints.
type CartAPI interface {
	GetCart(ctx context.Context) ([]domain.CartLine, error)
	AddToCart(ctx context.Context, productID int64, quantity int) (*Ack, error)
	UpdateCartLine(ctx context.Context, lineID int64, quantity int) (*Ack, error)
	RemoveCartLine(ctx context.Context, lineID int64) (*Ack, error)
}

// OrderAPI covers the customer /orders endpoints.
type OrderAPI interface {
	Checkout(ctx context.Context) (*Ack, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// AdminAPI covers the /admin endpoints.
type AdminAPI interface {
	ListAllProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*Ack, error)
	ListAllOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*Ack, error)
}

// StorefrontAPI is the full outbound surface.
type StorefrontAPI interface {
	CredentialBinder
	AuthAPI
	CatalogAPI
	CartAPI
	OrderAPI
	AdminAPI
}
