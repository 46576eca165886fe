// Package metrics defines and registers all custom Prometheus metrics for the
// EcoShop storefront client. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import and
// exposed by the local UI server at GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state changes.
// Label:
//   - state: the state entered ("anonymous", "authenticated")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by entered state.",
	},
	[]string{"state"},
)

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - action: "render", "redirect_login", "redirect_home" or "defer"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by action.",
	},
	[]string{"action"},
)

// ── Outbound API metrics ──────────────────────────────────────────────────────

// APIRequestsTotal counts calls to the storefront API.
// Labels:
//   - endpoint: route template, e.g. "PUT /cart/{id}"
//   - code: HTTP status code, or "error" on transport failure
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of storefront API calls, by endpoint and status code.",
	},
	[]string{"endpoint", "code"},
)

// APIRequestDuration measures storefront API round trips.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of storefront API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Local UI metrics ──────────────────────────────────────────────────────────

// UIRequestsTotal counts requests served by the local UI.
// Labels:
//   - route: the echo route path, e.g. "/cart/:id"
//   - status: HTTP status code returned
var UIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ui_requests_total",
		Help:      "Total number of local UI requests, by route and status.",
	},
	[]string{"method", "route", "status"},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartQueueDepth tracks pending cart mutations in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CartQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_queue_depth",
		Help:      "Current number of cart mutations pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
