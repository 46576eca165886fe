// Package apiclient binds the storefront REST API: a base URL, an optional
// bearer credential attached to every call, JSON bodies and the mapping of
// error responses onto the domain error taxonomy.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/core/domain"
	"github.com/ecoshop/storefront/internal/pkg/metrics"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBody    = 4 << 10
	headerRequestID = "X-Request-ID"
)

// Client is an HTTP client for the storefront API. It is safe for
// concurrent use; the credential can be swapped at any time.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	log            zerolog.Logger
	onUnauthorized func(credential string)

	mu         sync.RWMutex
	credential string
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUnauthorizedHandler registers fn to run when a call that carried a
// credential is answered with 401. fn receives the credential that call
// carried. The session store uses it to force a logout.
func WithUnauthorizedHandler(fn func(credential string)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a Client for baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHandler registers the forced-logout hook after construction,
// for wiring where the session store is built after the client.
func (c *Client) SetUnauthorizedHandler(fn func(credential string)) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// SetCredential attaches credential to all subsequent calls.
func (c *Client) SetCredential(credential string) {
	c.mu.Lock()
	c.credential = credential
	c.mu.Unlock()
}

// ClearCredential detaches the credential.
func (c *Client) ClearCredential() {
	c.mu.Lock()
	c.credential = ""
	c.mu.Unlock()
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the API answers at all. Any HTTP response counts as
// reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

// call describes one outbound request. endpoint is the low-cardinality
// metric label, e.g. "PUT /cart/{id}".
type call struct {
	method   string
	endpoint string
	path     string
	query    url.Values
	body     any
	out      any
}

func (c *Client) do(ctx context.Context, cl call) error {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var bodyReader io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(headerRequestID, reqID)

	c.mu.RLock()
	credential := c.credential
	onUnauthorized := c.onUnauthorized
	c.mu.RUnlock()
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.APIRequestDuration.WithLabelValues(cl.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(cl.endpoint, "error").Inc()
		c.log.Debug().Err(err).Str("endpoint", cl.endpoint).Str("request_id", reqID).Msg("api call failed")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", domain.ErrTransport, ctxErr)
		}
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(cl.endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug().
		Str("endpoint", cl.endpoint).
		Int("status", resp.StatusCode).
		Str("request_id", reqID).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && credential != "" && onUnauthorized != nil {
			onUnauthorized(credential)
		}
		return apiErr
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrTransport, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrUnexpected, cl.endpoint, err)
	}
	return nil
}

// decodeError extracts the server message from {message}, {error} or a
// plain-text body.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &domain.APIError{Status: resp.StatusCode}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		switch {
		case envelope.Message != "":
			apiErr.Message = envelope.Message
		case envelope.Error != "":
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}
