package api

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes used as metric label values
const (
	outcomeSuccess        = "success"
	outcomeHTTPError      = "http_error"
	outcomeNetworkError   = "network_error"
	outcomeInvalidRequest = "invalid_request"
)

// Metrics records outbound request counts and latencies
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the transport collectors and registers them on reg when it is not nil
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxclient_requests_total",
			Help: "Exchange-rate API requests by method, path and outcome.",
		}, []string{"method", "path", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fxclient_request_duration_seconds",
			Help:    "Exchange-rate API request latency including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register transport metrics: %w", err)
			}
		}
	}

	return m, nil
}

func (m *Metrics) observe(method, path, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, outcome).Inc()
	m.duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
