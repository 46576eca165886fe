package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/core/domain"
)

// SessionKey is the echo context key holding the domain.Session snapshot a
// request was decided with.
const SessionKey = "session"

// SnapshotSource yields the current session.
type SnapshotSource interface {
	Snapshot() domain.Session
}

// Session injects the current session snapshot into the context without
// gating the request.
func Session(source SnapshotSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(SessionKey, source.Snapshot())
			return next(c)
		}
	}
}

// SessionFrom returns the snapshot injected by Session or Guard. A request
// that went through neither is treated as still loading.
func SessionFrom(c echo.Context) domain.Session {
	s, ok := c.Get(SessionKey).(domain.Session)
	if !ok {
		return domain.Session{State: domain.StateLoading}
	}
	return s
}
