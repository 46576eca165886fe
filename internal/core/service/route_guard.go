package service

import (
	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/pkg/metrics"
)

// Decide maps a session snapshot and a requested path to a navigation action.
//
//	path             loading  anonymous  customer  admin
//	/login,/register defer    render     ->home    ->home
//	/ and others     defer    render     render    render
//	/cart,/orders    defer    ->login    render    render
//	/admin/...       defer    ->login    render    render
//
// Nothing redirects while the session is loading. The admin pages only need
// a login; the backend refuses non-admin calls and views hide admin controls
// through CapAdmin.
func Decide(s domain.Session, path string) domain.Action {
	if s.State == domain.StateLoading {
		return domain.ActionDefer
	}

	switch domain.ClassifyPath(path) {
	case domain.RouteGuestOnly:
		if s.Authenticated() {
			return domain.ActionRedirectHome
		}
		return domain.ActionRender
	case domain.RouteMember:
		return gate(s, requiredCapability(path))
	case domain.RouteAdmin:
		if !s.Authenticated() {
			return domain.ActionRedirectLogin
		}
		return domain.ActionRender
	default:
		return domain.ActionRender
	}
}

func gate(s domain.Session, c domain.Capability) domain.Action {
	if !s.Authenticated() {
		return domain.ActionRedirectLogin
	}
	if !domain.Can(s, c) {
		return domain.ActionRedirectHome
	}
	return domain.ActionRender
}

func requiredCapability(path string) domain.Capability {
	if domain.InSection(path, domain.PathOrders) {
		return domain.CapViewOrders
	}
	return domain.CapManageCart
}

// RouteGuard evaluates navigations against the live session store.
type RouteGuard struct {
	sessions interface{ Snapshot() domain.Session }
	log      zerolog.Logger
}

// NewRouteGuard returns a guard reading snapshots from sessions.
func NewRouteGuard(sessions interface{ Snapshot() domain.Session }, log zerolog.Logger) *RouteGuard {
	return &RouteGuard{sessions: sessions, log: log}
}

// Check decides a navigation to path and returns the snapshot it used.
func (g *RouteGuard) Check(path string) (domain.Action, domain.Session) {
	s := g.sessions.Snapshot()
	action := Decide(s, path)
	metrics.GuardDecisionsTotal.WithLabelValues(action.String()).Inc()
	g.log.Debug().
		Str("path", path).
		Str("state", s.State.String()).
		Str("action", action.String()).
		Msg("route guard")
	return action, s
}
