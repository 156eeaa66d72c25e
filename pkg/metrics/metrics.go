// Package metrics provides Prometheus metrics for the lead-central API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SchemaDetectionsTotal tracks schema detection attempts by outcome
	SchemaDetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadcentral",
			Subsystem: "schema",
			Name:      "detections_total",
			Help:      "Total number of schema detection attempts by outcome",
		},
		[]string{"outcome"},
	)

	// RowStoreRequestsTotal tracks requests against customer row stores
	RowStoreRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadcentral",
			Subsystem: "rowstore",
			Name:      "requests_total",
			Help:      "Total number of remote row store requests",
		},
		[]string{"operation", "status_code"},
	)

	// RowStoreRequestDuration tracks remote row store request duration
	RowStoreRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leadcentral",
			Subsystem: "rowstore",
			Name:      "request_duration_seconds",
			Help:      "Duration of remote row store requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// ConfigureAttemptsTotal tracks configure runs by outcome
	ConfigureAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadcentral",
			Subsystem: "connection",
			Name:      "configure_attempts_total",
			Help:      "Total number of connection configure attempts by outcome",
		},
		[]string{"outcome"},
	)

	// TableRowsRendered tracks rows rendered through the dynamic table
	TableRowsRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadcentral",
			Subsystem: "render",
			Name:      "table_rows_total",
			Help:      "Total number of rows rendered through the dynamic table",
		},
	)
)
