// Package metrics defines and registers all custom Prometheus metrics for the
// course management API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics self-register with the default Prometheus registry via promauto and
// are exposed through the /metrics endpoint mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "courses"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate", or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Catalogue metrics ─────────────────────────────────────────────────────────

// CoursesCreatedTotal counts newly created courses.
var CoursesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of courses created.",
	},
)

// ListCacheTotal counts course-list cache decisions.
// Label:
//   - result: "hit" or "miss"
var ListCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_cache_total",
		Help:      "Total number of course-list cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Enrollment metrics ────────────────────────────────────────────────────────

// EnrollmentAttemptsTotal counts enroll/leave attempts.
// Labels:
//   - action: "enroll" or "leave"
//   - result: "ok", "conflict", or "not_found"
var EnrollmentAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollment_attempts_total",
		Help:      "Total number of enrollment state transitions attempted, by action and result.",
	},
	[]string{"action", "result"},
)

// RosterQueueDepth tracks the current number of roster events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RosterQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "roster_queue_depth",
		Help:      "Current number of roster events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RosterEventDuration measures how long a single roster event takes to process.
// Label:
//   - action: "enrolled" or "left"
var RosterEventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "roster_event_duration_seconds",
		Help:      "Duration of roster event processing from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)
