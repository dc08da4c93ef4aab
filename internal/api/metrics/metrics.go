// Package metrics defines and registers all custom Prometheus metrics for the
// dibs API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry at package init, so
// importing this package is enough; the /metrics endpoint serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dibs"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsIssuedTotal counts tokens handed out by successful logins.
var SessionsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of session tokens issued.",
	},
)

// SessionsRevokedTotal counts explicit logouts.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of sessions revoked by logout.",
	},
)

// SessionValidationFailuresTotal counts rejected bearer tokens.
// Label:
//   - reason: "missing", "malformed", or "invalid" (unknown/expired token)
var SessionValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validation_failures_total",
		Help:      "Total number of requests rejected during token validation.",
	},
	[]string{"reason"},
)

// ── Claim metrics ─────────────────────────────────────────────────────────────

// ClaimAttemptsTotal counts claim state-machine outcomes.
// Label:
//   - result: "granted", "released", "conflict", or "not_found"
var ClaimAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claim_attempts_total",
		Help:      "Total number of claim attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// ClaimDuration measures a single claim attempt from lock acquisition to
// persisted transition.
var ClaimDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "claim_duration_seconds",
		Help:      "Duration of claim attempts including per-item lock wait.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
