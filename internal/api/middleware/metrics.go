package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ecoshop/storefront/internal/pkg/metrics"
)

// Metrics counts requests by method, route template and final status.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.UIRequestsTotal.WithLabelValues(
				c.Request().Method,
				route,
				strconv.Itoa(c.Response().Status),
			).Inc()
			return nil
		}
	}
}
