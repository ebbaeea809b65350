// Package metrics records API call outcomes with Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the gateway reports to after each API call.
type Recorder interface {
	// RecordRequest records a call that got an HTTP response.
	RecordRequest(op string, statusCode int, latency time.Duration)
	// RecordTransportFailure records a call that never got a response or could not be decoded.
	RecordTransportFailure(op string, reason string)
	// RecordDroppedRecords records records rejected by boundary validation.
	RecordDroppedRecords(op string, count int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	dropped  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photojay_admin_api_requests_total",
			Help: "API calls by operation and HTTP status code",
		}, []string{"op", "status_code"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photojay_admin_api_transport_failures_total",
			Help: "API calls that failed before or while reading a response",
		}, []string{"op", "reason"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "photojay_admin_api_latency_seconds",
			Help:    "API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photojay_admin_api_dropped_records_total",
			Help: "Records discarded by response validation",
		}, []string{"op"}),
	}

	reg.MustRegister(c.requests, c.failures, c.latency, c.dropped)

	return c
}

// RecordRequest counts the call and observes its latency.
func (c *Collector) RecordRequest(op string, statusCode int, latency time.Duration) {
	c.requests.WithLabelValues(op, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(op).Observe(latency.Seconds())
}

// RecordTransportFailure counts a failed call.
func (c *Collector) RecordTransportFailure(op string, reason string) {
	c.failures.WithLabelValues(op, reason).Inc()
}

// RecordDroppedRecords counts invalid records dropped from a response.
func (c *Collector) RecordDroppedRecords(op string, count int) {
	if count <= 0 {
		return
	}
	c.dropped.WithLabelValues(op).Add(float64(count))
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, int, time.Duration) {}
func (Nop) RecordTransportFailure(string, string)    {}
func (Nop) RecordDroppedRecords(string, int)         {}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute returns a mux serving /metrics.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
