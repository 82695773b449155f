// Package metrics defines and registers all custom Prometheus metrics for the
// tender marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the echoprometheus handler exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tender"

// TendersCreatedTotal counts tenders successfully published.
var TendersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tenders_created_total",
		Help:      "Total number of tenders published.",
	},
)

// BidsSubmittedTotal counts bids successfully submitted.
var BidsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bids_submitted_total",
		Help:      "Total number of bids submitted.",
	},
)

// AwardsTotal counts award attempts by outcome.
// Label:
//   - result: "ok", "conflict", "not_found" or "denied"
var AwardsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "awards_total",
		Help:      "Total number of winner selections, labelled by outcome.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)
