// Package metrics defines and registers all custom Prometheus metrics for the
// cafeteria portals. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the web surface at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cafeteria"

// ── Navigation metrics ────────────────────────────────────────────────────────

// NavigationsTotal counts navigation attempts.
// Labels:
//   - portal: "general", "student" or "admin"
//   - outcome: "shown", "load_failed" or "unbound"
var NavigationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "navigations_total",
		Help:      "Total number of navigation attempts, by portal and outcome.",
	},
	[]string{"portal", "outcome"},
)

// ViewCacheTotal counts view cache lookups.
// Label:
//   - result: "hit" (cached view reused) or "miss" (view built)
var ViewCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_cache_total",
		Help:      "Total number of view cache lookups, labelled by result (hit/miss).",
	},
	[]string{"portal", "result"},
)

// ViewBuildDuration measures how long it takes to build a view from its description.
var ViewBuildDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "view_build_duration_seconds",
		Help:      "Duration of building a view and its controller.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"portal"},
)

// PayloadDispatchTotal counts payload dispatch decisions.
// Labels:
//   - kind: payload kind (e.g. "menu_manager")
//   - result: "typed", "fallback" or "unhandled"
var PayloadDispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payload_dispatch_total",
		Help:      "Total number of payload dispatches, by payload kind and result.",
	},
	[]string{"kind", "result"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// StoreFailuresTotal counts account store operations that degraded to a sentinel.
// Labels:
//   - collection: backing collection (e.g. "MenuManager")
//   - op: store operation (e.g. "add", "count")
var StoreFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_failures_total",
		Help:      "Total number of account store operations that failed and returned a sentinel.",
	},
	[]string{"collection", "op"},
)

// LoginsTotal counts login attempts.
// Labels:
//   - role: resolved role or kind ("unknown" when rejected)
//   - outcome: "signed_in", "rejected" or "home_failed" (credentials accepted
//     but the home view could not be shown)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by resolved role and outcome.",
	},
	[]string{"role", "outcome"},
)

// NavigationQueueDepth tracks pending background navigations per worker.
var NavigationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "navigation_queue_depth",
		Help:      "Current number of background navigations pending in each queue worker.",
	},
	[]string{"worker_id"},
)
