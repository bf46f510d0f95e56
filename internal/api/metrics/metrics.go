// Package metrics defines and registers all custom Prometheus metrics for
// the StreamHub identity API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// SignupsTotal counts signup attempts.
// Label:
//   - result: "created", "conflict", or "invalid"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, labelled by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "disabled", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// SessionResolutionsTotal counts bearer-token resolutions performed by the
// auth middleware on protected requests.
// Label:
//   - result: "ok" or "rejected"
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of bearer-token session resolutions, labelled by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts password-reset operations.
// Labels:
//   - stage: "request" or "confirm"
//   - result: "ok" or "rejected"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset operations, labelled by stage and result.",
	},
	[]string{"stage", "result"},
)

// LoginDuration measures end-to-end login handling, dominated by the bcrypt
// verification cost.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login processing including password verification.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
