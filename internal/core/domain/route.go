package domain

import "strings"

// Action is the outcome of evaluating a navigation against the session.
type Action int

const (
	ActionRender Action = iota
	ActionRedirectLogin
	ActionRedirectHome
	// ActionDefer renders a neutral placeholder while the session is loading.
	ActionDefer
)

func (a Action) String() string {
	switch a {
	case ActionRender:
		return "render"
	case ActionRedirectLogin:
		return "redirect_login"
	case ActionRedirectHome:
		return "redirect_home"
	case ActionDefer:
		return "defer"
	default:
		return "unknown"
	}
}

// Page paths understood by the guard.
const (
	PathHome     = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathCart     = "/cart"
	PathOrders   = "/orders"
	PathAdmin    = "/admin"
)

// RouteClass groups paths that share one row of the guard table.
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteGuestOnly
	RouteMember
	RouteAdmin
)

// ClassifyPath maps a requested path onto its guard class. Sub-paths inherit
// the class of their section, so "/cart/12" is a member route.
func ClassifyPath(path string) RouteClass {
	switch {
	case InSection(path, PathLogin) || InSection(path, PathRegister):
		return RouteGuestOnly
	case InSection(path, PathCart), InSection(path, PathOrders):
		return RouteMember
	case InSection(path, PathAdmin):
		return RouteAdmin
	default:
		return RoutePublic
	}
}

// NormalizePath strips the query and surrounding slashes: "cart/?x=1" → "/cart".
func NormalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return "/" + strings.Trim(path, "/")
}

// InSection reports whether path is section or one of its sub-paths.
func InSection(path, section string) bool {
	p := NormalizePath(path)
	return p == section || strings.HasPrefix(p, section+"/")
}
