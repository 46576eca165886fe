package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/api/handler"
	"github.com/ecoshop/storefront/internal/api/middleware"
	"github.com/ecoshop/storefront/internal/core/ports"
	infrahttp "github.com/ecoshop/storefront/internal/infrastructure/http"
	"github.com/ecoshop/storefront/internal/infrastructure/http/handlers"
)

// Deps are the services the UI server renders.
type Deps struct {
	Sessions ports.SessionService
	Guard    middleware.Checker
	Auth     ports.AuthService
	Catalog  ports.CatalogService
	Cart     ports.CartService
	Orders   ports.OrderService
	Admin    ports.AdminService
	Notices  ports.NoticeBoard
	Health   map[string]handlers.Pinger
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Notices)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Metrics())

	// --- Ops (never guarded) ---
	infrahttp.RegisterOps(e, d.Health)

	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions, d.Notices)
	catalogHandler := handler.NewCatalogHandler(d.Catalog, d.Notices)
	cartHandler := handler.NewCartHandler(d.Cart, d.Notices)
	orderHandler := handler.NewOrderHandler(d.Orders, d.Notices)
	adminHandler := handler.NewAdminHandler(d.Admin, d.Notices)

	e.GET("/session", authHandler.Session, middleware.Session(d.Sessions))
	e.DELETE("/banner", catalogHandler.DismissBanner)

	// --- Pages and actions, all behind the route guard ---
	ui := e.Group("", middleware.Guard(d.Guard))

	ui.GET("/", catalogHandler.Home)
	ui.GET("/login", authHandler.LoginPage)
	ui.POST("/login", authHandler.Login)
	ui.GET("/register", authHandler.RegisterPage)
	ui.POST("/register", authHandler.Register)
	ui.POST("/logout", authHandler.Logout)

	ui.GET("/cart", cartHandler.View)
	ui.POST("/cart/add", cartHandler.Add)
	ui.POST("/cart/checkout", cartHandler.Checkout)
	ui.PUT("/cart/:id", cartHandler.Update)
	ui.DELETE("/cart/:id", cartHandler.Remove)

	ui.GET("/orders", orderHandler.History)

	ui.GET("/admin", adminHandler.Dashboard)
	ui.GET("/admin/products", adminHandler.Products)
	ui.POST("/admin/products", adminHandler.CreateProduct)
	ui.PUT("/admin/products/:id", adminHandler.UpdateProduct)
	ui.DELETE("/admin/products/:id", adminHandler.DeleteProduct)
	ui.GET("/admin/orders", adminHandler.Orders)
	ui.PUT("/admin/orders/:id/status", adminHandler.SetOrderStatus)

	return e
}
