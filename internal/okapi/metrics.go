package okapi

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ClientMetrics holds Prometheus metrics for backend calls.
type ClientMetrics struct {
	loginTotal      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	clientMetricsInstance *ClientMetrics
	clientMetricsOnce     sync.Once
)

// GetClientMetrics returns the singleton backend client metrics instance.
func GetClientMetrics() *ClientMetrics {
	clientMetricsOnce.Do(func() {
		clientMetricsInstance = newClientMetrics()
	})
	return clientMetricsInstance
}

// MustRegister registers the collectors with the given registry.
func (m *ClientMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(m.loginTotal, m.requestDuration)
}

func newClientMetrics() *ClientMetrics {
	return &ClientMetrics{
		loginTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "edge",
				Subsystem: "okapi",
				Name:      "login_total",
				Help:      "Total number of backend login attempts",
			},
			[]string{"tenant", "result"},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "edge",
				Subsystem: "okapi",
				Name:      "request_duration_seconds",
				Help:      "Duration of backend requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tenant", "operation"},
		),
	}
}
