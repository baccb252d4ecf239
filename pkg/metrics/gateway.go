package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// GatewayMetrics counts record store operations by outcome.
type GatewayMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewGatewayMetrics registers the gateway metrics on the provided registerer.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "redistrib_gateway_operations_total",
		Help: "Record store gateway operations by outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redistrib_gateway_operation_duration_seconds",
		Help:    "Latency of record store gateway operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(calls, duration)
	return &GatewayMetrics{calls: calls, duration: duration}
}

// Observe records one finished operation.
func (g *GatewayMetrics) Observe(operation string, success bool, elapsed time.Duration) {
	if g == nil || g.calls == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	op := normalizeLabel(operation)
	g.calls.WithLabelValues(op, outcome).Inc()
	g.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
