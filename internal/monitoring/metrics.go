package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Store operation metrics
	writeAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arlet_store_write_attempts_total",
			Help: "Total number of Firestore write attempts",
		},
		[]string{"collection", "outcome"},
	)

	readAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arlet_store_read_attempts_total",
			Help: "Total number of Firestore read attempts",
		},
		[]string{"collection", "outcome"},
	)

	retriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arlet_store_retries_total",
			Help: "Total number of retried store operations",
		},
		[]string{"operation"},
	)

	backoffSeconds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arlet_store_backoff_seconds_total",
			Help: "Total seconds spent sleeping between retry attempts",
		},
	)

	// Connection metrics
	storeConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arlet_store_connected",
			Help: "Whether the Firestore connection is established (1) or not (0)",
		},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(writeAttemptsTotal)
	prometheus.MustRegister(readAttemptsTotal)
	prometheus.MustRegister(retriesTotal)
	prometheus.MustRegister(backoffSeconds)
	prometheus.MustRegister(storeConnected)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordWriteAttempt records a single write attempt against a collection
func RecordWriteAttempt(collection, outcome string) {
	writeAttemptsTotal.WithLabelValues(collection, outcome).Inc()
}

// RecordReadAttempt records a single read attempt against a collection
func RecordReadAttempt(collection, outcome string) {
	readAttemptsTotal.WithLabelValues(collection, outcome).Inc()
}

// RecordRetry records a retried operation
func RecordRetry(operation string) {
	retriesTotal.WithLabelValues(operation).Inc()
}

// RecordBackoff records time spent in a backoff sleep
func RecordBackoff(delay time.Duration) {
	backoffSeconds.Add(delay.Seconds())
}

// SetConnected updates the connection gauge
func SetConnected(connected bool) {
	if connected {
		storeConnected.Set(1)
	} else {
		storeConnected.Set(0)
	}
}
