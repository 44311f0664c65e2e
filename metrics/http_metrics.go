package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP requests served by route template and status code
	// Cardinality: ~40 (10 routes × ~4 statuses)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "http_requests_total",
			Help: "Total number of HTTP requests served by route and status",
		},
		[]string{"route", "status"},
	)

	// HTTP handler latency by route template
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "http_request_duration_seconds",
			Help: "Time taken to serve HTTP requests by route",
		},
		[]string{"route"},
	)

	// Open market websocket streams
	WebsocketClientsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "websocket_clients",
			Help: "Number of open market websocket streams",
		},
	)
)

// RecordHTTPRequest records one served request
func RecordHTTPRequest(route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
