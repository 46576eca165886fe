package ports

import (
	"context"
	"time"

	"github.com/ecoshop/storefront/internal/core/domain"
)

// SessionService is the narrow mutation API of the session store.
type SessionService interface {
	Snapshot() domain.Session
	Hydrate(ctx context.Context) domain.Session
	Login(ctx context.Context, credential string, identity domain.Identity) (domain.Session, error)
	Logout(ctx context.Context) domain.Session
	WaitReady(ctx context.Context) (domain.Session, error)
}

// CartView is the cached cart plus its derived total.
type CartView struct {
	Lines []domain.CartLine
	Total string
	// Seq is the refresh sequence number that produced this view.
	Seq uint64
}

// CartService mirrors the server cart and re-fetches after every mutation.
type CartService interface {
	Refresh(ctx context.Context) (CartView, error)
	Cached() CartView
	Add(ctx context.Context, productID int64, quantity int) (CartView, error)
	UpdateQuantity(ctx context.Context, lineID int64, quantity int) (CartView, error)
	Remove(ctx context.Context, lineID int64) (CartView, error)
	Checkout(ctx context.Context) (string, CartView, error)
}

// CatalogService lists and searches products.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, term string) ([]domain.Product, error)
}

// OrderService lists the customer's orders.
type OrderService interface {
	History(ctx context.Context) ([]domain.Order, error)
}

// AdminService drives the admin console.
type AdminService interface {
	Products(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (string, error)
	Orders(ctx context.Context) ([]domain.Order, error)
	SetOrderStatus(ctx context.Context, id int64, status string) (string, error)
}

// AuthService signs users in and up.
type AuthService interface {
	SignIn(ctx context.Context, username, password string) (domain.Session, error)
	Register(ctx context.Context, in SignUpInput) (string, error)
	RegisterAndSignIn(ctx context.Context, in SignUpInput) (domain.Session, string, error)
}

// NoticeBoard holds the banner currently shown to the user.
type NoticeBoard interface {
	Show(kind domain.BannerKind, msg string, ttl time.Duration) domain.Banner
	Current() (domain.Banner, bool)
	Dismiss()
}
