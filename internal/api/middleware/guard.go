package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/core/domain"
)

// Checker decides a navigation to path.
type Checker interface {
	Check(path string) (domain.Action, domain.Session)
}

// Denial is the error a guarded mutation fails with. Pages are redirected
// instead; a form post or XHR gets a status, a message and where to go.
type Denial struct {
	Code     int
	Message  string
	Redirect string
}

func (d *Denial) Error() string { return d.Message }

// deniedMessages overrides the generic denial text for specific actions.
var deniedMessages = map[string]string{
	"/cart/add": "Please login to add items to cart",
}

// Guard applies the route guard to every request it wraps.
//
// While the session is loading it answers 202 with {"state":"loading"} and
// never redirects. GET requests that are denied are redirected (303) to the
// login page or home; other methods fail with a *Denial.
func Guard(g Checker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := domain.NormalizePath(c.Request().URL.Path)
			action, s := g.Check(path)

			switch action {
			case domain.ActionDefer:
				return c.JSON(http.StatusAccepted, map[string]string{"state": s.State.String()})
			case domain.ActionRedirectLogin:
				return deny(c, path, http.StatusUnauthorized, "Please login to continue", domain.PathLogin)
			case domain.ActionRedirectHome:
				return deny(c, path, http.StatusForbidden, "You do not have access to this page", domain.PathHome)
			}

			c.Set(SessionKey, s)
			return next(c)
		}
	}
}

func deny(c echo.Context, path string, code int, msg, target string) error {
	if m := c.Request().Method; m == http.MethodGet || m == http.MethodHead {
		return c.Redirect(http.StatusSeeOther, target)
	}
	if override, ok := deniedMessages[path]; ok {
		msg = override
	}
	return &Denial{Code: code, Message: msg, Redirect: target}
}
