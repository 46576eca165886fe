package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/api/middleware"
	"github.com/ecoshop/storefront/internal/core/domain"
)

// currentSession returns the snapshot the route guard decided this request
// with. Handlers never read the live store, so one request sees one session.
func currentSession(c echo.Context) domain.Session {
	return middleware.SessionFrom(c)
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// ActionError carries the banner text used when err has no server message.
type ActionError struct {
	Err      error
	Fallback string
	TTL      time.Duration
}

func (e *ActionError) Error() string { return e.Err.Error() }

func (e *ActionError) Unwrap() error { return e.Err }

func fail(err error, fallback string) error {
	return &ActionError{Err: err, Fallback: fallback}
}
