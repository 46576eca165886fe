package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport    = errors.New("storefront api unreachable")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnexpected   = errors.New("unexpected api response")

	ErrNoCredential      = errors.New("no persisted credential")
	ErrCredentialExpired = errors.New("credential expired")
	ErrUnknownRole       = errors.New("unknown role")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// APIError is a non-2xx response from the storefront API. Message is the
// server-supplied text and is shown to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("storefront api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Message
}

// Unwrap maps the status onto the error taxonomy so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrUnexpected
	}
}

// UserMessage returns the text a banner should show for err.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidStatus):
		return err.Error()
	case errors.Is(err, ErrTransport):
		return "The store is unreachable. Please try again."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please login again."
	case errors.Is(err, ErrForbidden):
		return "Make sure you have admin privileges."
	}
	return fallback
}
