package utils

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "adpulse_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	RowsParsed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adpulse_rows_parsed_total",
		Help: "Rows that survived CSV parsing, by file kind.",
	}, []string{"kind"})

	ParseErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adpulse_parse_errors_total",
		Help: "Parse diagnostics of error severity, by file kind.",
	}, []string{"kind"})

	SnapshotsComputed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "adpulse_snapshots_computed_total",
		Help: "Resolved snapshots computed (cache misses).",
	})
)

func init() {
	prometheus.MustRegister(HTTPDuration, RowsParsed, ParseErrors, SnapshotsComputed)
}
