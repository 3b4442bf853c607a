// Package metrics exposes Prometheus counters for the reconciliation
// engine. One registry-default set is enough; the service runs as a single
// process.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fencetrack"

var (
	RunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "runs_total",
		Help:      "Reconciliation passes started.",
	})

	EventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "events_processed_total",
		Help:      "Events pushed through the normalize/reconstruct/merge pipeline.",
	})

	BoutsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "bouts_written_total",
		Help:      "Bouts inserted or filled in the snapshot store.",
	})

	StructuralErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "structural_errors_total",
		Help:      "Events rejected by bracket validation.",
	})

	MergeConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "merge_conflicts_total",
		Help:      "Field groups rejected because they contradicted complete bouts.",
	})

	TransportFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "transport_failures_total",
		Help:      "Fragment fetches that failed at the transport layer.",
	})

	GapsDetected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "gaps",
		Help:      "Gaps in the worklist after the latest pass.",
	})
)
