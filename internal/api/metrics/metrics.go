// Package metrics defines and registers the custom Prometheus metrics for
// the catalog backend. It is the single source of truth for metric names,
// labels, and help strings. Registration happens at import time via
// promauto; the HTTP request metrics themselves come from the
// echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// UploadsTotal counts upload-pipeline runs.
// Label:
//   - result: "ok" (asset resolved, item pipeline completed) or "error"
//     (remote store rejected or transport failed)
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of feature-image upload attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ListingFallbacksTotal counts aggregated lookups that degraded to their
// fallback message instead of failing the render.
// Label:
//   - lookup: "items" or "categories"
var ListingFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_fallbacks_total",
		Help:      "Total number of listing lookups that fell back to a message.",
	},
	[]string{"lookup"},
)
