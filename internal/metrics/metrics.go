// Package metrics defines the Prometheus counters for the warning pipeline.
// Counters are registered on the default registry and exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicksTotal counts scheduler ticks, split by trigger ("schedule" or "manual").
	TicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelwarnings_ticks_total",
		Help: "Number of warning sync ticks executed, by trigger.",
	}, []string{"trigger"})

	// WarningsSynced counts warnings created or updated by the fetcher.
	WarningsSynced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelwarnings_warnings_synced_total",
		Help: "Number of warnings created or updated from the provider.",
	})

	// WarningsSkipped counts index items skipped as stale or invalid.
	// Stale versions are expected steady state, not failures.
	WarningsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travelwarnings_warnings_skipped_total",
		Help: "Number of index items skipped, by reason (stale, invalid, error).",
	}, []string{"reason"})

	// SyncFailures counts fatal index fetch failures (whole sync aborted).
	SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelwarnings_sync_failures_total",
		Help: "Number of sync runs aborted because the provider index was unavailable.",
	})

	// AlertsSent counts successfully delivered and recorded alert emails.
	AlertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelwarnings_alerts_sent_total",
		Help: "Number of alert emails sent and recorded successfully.",
	})

	// AlertsFailed counts alert deliveries that errored.
	AlertsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelwarnings_alerts_failed_total",
		Help: "Number of alert deliveries that failed.",
	})

	// AlertsDeduplicated counts alerts skipped because a successful
	// notification already existed for the same warning version.
	AlertsDeduplicated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "travelwarnings_alerts_deduplicated_total",
		Help: "Number of alerts skipped by the per-version deduplication check.",
	})
)
