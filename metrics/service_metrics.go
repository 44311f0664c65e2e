package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchDurationHistogram tracks the duration of query fetches including retries
	FetchDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "fetch_duration_seconds",
			Help: "Time taken by a query fetch, retries and backoff included",
		},
		[]string{"service", "mode"},
	)
)

// RecordFetchCycle measures and records the duration of a fetch in the given mode
// (foreground or background)
func RecordFetchCycle(service, mode string, start time.Time) {
	duration := time.Since(start)
	FetchDurationHistogram.WithLabelValues(service, mode).Observe(duration.Seconds())
	log.Debugf("Metrics: %s %s fetch took %.2fs", service, mode, duration.Seconds())
}
