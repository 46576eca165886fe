package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/api/handler"
	"github.com/ecoshop/storefront/internal/api/middleware"
	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/core/ports"
)

// errorResponse is the canonical error envelope for all UI errors.
type errorResponse struct {
	Error    string         `json:"error"`
	Banner   *domain.Banner `json:"banner,omitempty"`
	Redirect string         `json:"redirect,omitempty"`
}

// resolved is the outcome of mapping an error onto a response.
type resolved struct {
	code     int
	msg      string
	redirect string
	banner   bool
	ttl      time.Duration
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to HTTP status codes.
//   - Shows the message as an error banner, preferring the server's wording.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger, notices ports.NoticeBoard) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		r := resolveError(err, log, c)
		resp := errorResponse{Error: r.msg, Redirect: r.redirect}
		if r.banner && notices != nil {
			b := notices.Show(domain.BannerError, r.msg, r.ttl)
			resp.Banner = &b
		}
		_ = c.JSON(r.code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) resolved {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return resolved{code: he.Code, msg: fmt.Sprintf("%v", he.Message), banner: he.Code == http.StatusBadRequest}
	}

	var denial *middleware.Denial
	if errors.As(err, &denial) {
		return resolved{code: denial.Code, msg: denial.Message, redirect: denial.Redirect, banner: true}
	}

	fallback := ""
	var ttl time.Duration
	var ae *handler.ActionError
	if errors.As(err, &ae) {
		fallback = ae.Fallback
		ttl = ae.TTL
	}

	code := statusFor(err)
	if fallback == "" {
		fallback = http.StatusText(code)
	}
	r := resolved{code: code, msg: domain.UserMessage(err, fallback), banner: true, ttl: ttl}

	switch code {
	case http.StatusUnauthorized:
		// The API binding has already forced the session out.
		r.redirect = domain.PathLogin
	case http.StatusInternalServerError:
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
	default:
		log.Debug().Err(err).Int("status", code).Str("path", c.Path()).Msg("request failed")
	}
	return r
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrUnexpected):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
