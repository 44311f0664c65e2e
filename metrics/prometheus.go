package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "market_dashboard_"

// Service constants, one per resource kind
const (
	ServiceMarkets       = "markets"
	ServiceCurrencyRates = "currency_rates"
	ServiceDetails       = "details"
	ServiceHistory       = "history"
	ServiceTickers       = "tickers"
)

// Cache results recorded by the query layer
const (
	CacheResultHit    = "hit"
	CacheResultStale  = "stale"
	CacheResultMiss   = "miss"
	CacheResultJoined = "joined"
)

var log = logrus.WithField("component", "metrics")

var (
	// Global Coingecko request counter (all services)
	// Cardinality: ~4 (success, error, rate_limited, not_found)
	CoingeckoRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "coingecko_requests_total",
			Help: "Total number of HTTP requests to Coingecko API across all services",
		},
		[]string{"status"},
	)

	// Service-specific Coingecko request counter
	// Cardinality: ~20 (5 services × 4 statuses)
	ServiceCoingeckoRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_coingecko_requests_total",
			Help: "Total number of HTTP requests to Coingecko API per service",
		},
		[]string{"service", "status"},
	)

	// Request latency per endpoint
	// Cardinality: ~5 (one endpoint per service)
	RequestLatencyHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "request_latency_seconds",
			Help: "HTTP request latency by service and endpoint",
		},
		[]string{"service", "endpoint"},
	)

	// Retry attempts counter
	// Cardinality: ~5 (number of services)
	ServiceRetryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_retry_attempts_total",
			Help: "Total number of retry attempts per service",
		},
		[]string{"service"},
	)

	// Rate limit hits counter
	// Cardinality: ~5 (number of services)
	RateLimitCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "rate_limit_hits_total",
			Help: "Total number of rate limit hits per service",
		},
		[]string{"service"},
	)

	// Query cache lookups by result
	// Cardinality: ~20 (5 services × 4 results)
	QueryCacheResultTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "query_cache_results_total",
			Help: "Query cache lookups by result (hit, stale, miss, joined)",
		},
		[]string{"service", "result"},
	)

	// Terminal fetch outcomes by error kind
	// Cardinality: ~20 (5 services × 4 outcomes)
	FetchOutcomeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "fetch_outcomes_total",
			Help: "Terminal outcomes of query fetches (success, network, api, validation)",
		},
		[]string{"service", "outcome"},
	)

	// Query cache size
	// Cardinality: 1
	QueryEntriesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "query_entries",
			Help: "Number of entries in the query cache",
		},
	)
)

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordServiceCoingeckoRequest records a service-specific Coingecko API request
func (mw *MetricsWriter) RecordServiceCoingeckoRequest(status string) {
	CoingeckoRequestsTotal.WithLabelValues(status).Inc()
	ServiceCoingeckoRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
	if status == "rate_limited" {
		RateLimitCounter.WithLabelValues(mw.serviceName).Inc()
	}
}

// RecordRequestLatency records the latency of one provider request
func (mw *MetricsWriter) RecordRequestLatency(endpoint string, duration time.Duration) {
	RequestLatencyHistogram.WithLabelValues(mw.serviceName, endpoint).Observe(duration.Seconds())
}

// RecordRetryAttempt records a retry attempt
func (mw *MetricsWriter) RecordRetryAttempt() {
	ServiceRetryCounter.WithLabelValues(mw.serviceName).Inc()
	log.Debugf("Metrics: %s recorded a retry attempt", mw.serviceName)
}

// RecordCacheResult records a query cache lookup
func (mw *MetricsWriter) RecordCacheResult(result string) {
	QueryCacheResultTotal.WithLabelValues(mw.serviceName, result).Inc()
}

// RecordFetchOutcome records the terminal outcome of a fetch
func (mw *MetricsWriter) RecordFetchOutcome(outcome string) {
	FetchOutcomeTotal.WithLabelValues(mw.serviceName, outcome).Inc()
}

// RecordCacheSize records the number of entries in the query cache
func RecordCacheSize(size int) {
	QueryEntriesGauge.Set(float64(size))
}

// Implement HttpStatusHandler interface for MetricsWriter
// OnRequest records an HTTP request with its status
func (mw *MetricsWriter) OnRequest(status string) {
	mw.RecordServiceCoingeckoRequest(status)
}

// OnRetry records an HTTP retry attempt
func (mw *MetricsWriter) OnRetry() {
	mw.RecordRetryAttempt()
}
