package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
	"github.com/ecoshop/storefront/internal/core/service"
	"github.com/ecoshop/storefront/internal/infrastructure/apiclient"
	"github.com/ecoshop/storefront/internal/infrastructure/credstore"
	redisdb "github.com/ecoshop/storefront/internal/infrastructure/db/redis"
	"github.com/ecoshop/storefront/internal/infrastructure/http/handlers"
	"github.com/ecoshop/storefront/internal/infrastructure/queue"
	"github.com/ecoshop/storefront/internal/pkg/config"
	"github.com/ecoshop/storefront/pkg/logger"
)

var (
	errLoginRequired   = errors.New("please login first (storefront login)")
	errAlreadyLoggedIn = errors.New("already logged in")
	errCustomerOnly    = errors.New("only customers can add items to the cart")
	errAddNeedsLogin   = errors.New("please login to add items to cart")
	errSessionLoading  = errors.New("session is still loading")
)

// app is the wired object graph shared by every command.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	api      *apiclient.Client
	creds    ports.CredentialStore
	health   map[string]handlers.Pinger
	sessions *service.SessionStore
	guard    *service.RouteGuard
	notices  *service.Notices
	lanes    *queue.Dispatcher

	auth    *service.AuthService
	catalog *service.CatalogService
	cart    *service.CartService
	orders  *service.OrderService
	admin   *service.AdminService

	closers []func() error
}

func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{
		cfg:    cfg,
		log:    log,
		health: map[string]handlers.Pinger{},
	}

	a.api = apiclient.New(cfg.API.BaseURL,
		logger.Component("apiclient"),
		apiclient.WithTimeout(cfg.API.Timeout),
	)
	a.health["storefront_api"] = a.api

	creds, err := a.credentialStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.creds = creds

	a.sessions = service.NewSessionStore(a.creds, a.api, a.api, logger.Component("session"))
	a.health["session"] = handlers.PingFunc(a.sessionReady)
	a.api.SetUnauthorizedHandler(a.sessions.HandleUnauthorized)
	a.guard = service.NewRouteGuard(a.sessions, logger.Component("guard"))
	a.notices = service.NewNotices(cfg.UI.BannerTTL)

	a.lanes = queue.NewDispatcher(cfg.UI.CartWorkers, logger.Component("cart_lanes"))
	a.lanes.Start(ctx)

	a.auth = service.NewAuthService(a.api, a.sessions)
	a.catalog = service.NewCatalogService(a.api, logger.Component("catalog"))
	a.cart = service.NewCartService(a.api, a.api, a.lanes, logger.Component("cart"))
	a.sessions.OnCredentialChange(a.cart.Reset)
	a.orders = service.NewOrderService(a.api)
	a.admin = service.NewAdminService(a.api, logger.Component("admin"))
	return a, nil
}

func (a *app) credentialStore(ctx context.Context) (ports.CredentialStore, error) {
	switch a.cfg.Credential.Backend {
	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("credential backend: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		store := redisdb.NewCredentialStore(client, a.cfg.Credential.Key, 0)
		a.health["redis"] = store
		return store, nil
	default:
		store, err := credstore.NewFileStore(a.cfg.Credential.Path, a.cfg.Credential.Key,
			credstore.WithSecret(a.cfg.Credential.Secret))
		if err != nil {
			return nil, fmt.Errorf("credential backend: %w", err)
		}
		return store, nil
	}
}

// Close releases connections opened by buildApp.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// enter restores the session and runs the route guard for path, the way a
// page navigation would. Redirects become errors.
// sessionReady fails until the persisted credential has been checked.
func (a *app) sessionReady(context.Context) error {
	if a.sessions.Snapshot().State == domain.StateLoading {
		return errSessionLoading
	}
	return nil
}

func (a *app) enter(ctx context.Context, path string) (domain.Session, error) {
	a.sessions.Hydrate(ctx)
	action, s := a.guard.Check(path)
	switch action {
	case domain.ActionRedirectLogin:
		return s, errLoginRequired
	case domain.ActionRedirectHome:
		return s, fmt.Errorf("%w as %s, run storefront logout to switch accounts", errAlreadyLoggedIn, s.Identity.Username)
	}
	return s, nil
}
