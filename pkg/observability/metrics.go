package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway and webhook collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gatewayRequestsTotal   *prometheus.CounterVec
	gatewayRequestDuration *prometheus.HistogramVec
	gatewayErrorsTotal     *prometheus.CounterVec
	gatewayInFlight        prometheus.Gauge
	webhookDeliveriesTotal *prometheus.CounterVec
	webhookDuration        prometheus.Histogram
	circuitState           prometheus.Gauge
}

// NewMetrics registers the collectors with reg. Passing
// prometheus.DefaultRegisterer exposes them on promhttp.Handler().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatewayRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hyperpay_gateway_requests_total",
			Help: "Gateway exchanges that returned a decoded result, by operation and result category",
		}, []string{
			"operation", // checkout, payment, status, refund, capture, reversal
			"category",
		}),

		gatewayRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hyperpay_gateway_request_duration_seconds",
			Help:    "Gateway round trip duration",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),

		gatewayErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hyperpay_gateway_errors_total",
			Help: "Gateway exchanges that failed before a result code was obtained",
		}, []string{
			"operation",
			"reason", // timeout, canceled, transport, http_status, circuit_open, rate_limited, decode
		}),

		gatewayInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hyperpay_gateway_requests_in_flight",
			Help: "Gateway exchanges currently in progress",
		}),

		webhookDeliveriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hyperpay_webhook_deliveries_total",
			Help: "Inbound webhook deliveries by outcome",
		}, []string{
			"outcome", // processed, verification_failed, malformed, hook_failed
		}),

		webhookDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hyperpay_webhook_processing_duration_seconds",
			Help:    "Time spent verifying and normalizing a webhook",
			Buckets: prometheus.DefBuckets,
		}),

		circuitState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hyperpay_gateway_circuit_state",
			Help: "Outbound circuit breaker state (0 closed, 1 open, 2 half-open)",
		}),
	}
}

// ObserveGatewayCall records a completed exchange.
func (m *Metrics) ObserveGatewayCall(operation, category string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequestsTotal.WithLabelValues(operation, category).Inc()
	m.gatewayRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordGatewayError records an exchange that produced no result code.
func (m *Metrics) RecordGatewayError(operation, reason string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.gatewayErrorsTotal.WithLabelValues(operation, reason).Inc()
	if elapsed > 0 {
		m.gatewayRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	}
}

// TrackInFlight increments the in-flight gauge and returns the decrement.
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.gatewayInFlight.Inc()
	return m.gatewayInFlight.Dec
}

// RecordWebhookDelivery records one webhook delivery.
func (m *Metrics) RecordWebhookDelivery(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.webhookDeliveriesTotal.WithLabelValues(outcome).Inc()
	m.webhookDuration.Observe(elapsed.Seconds())
}

// SetCircuitState publishes the breaker state as a number.
func (m *Metrics) SetCircuitState(state int) {
	if m == nil {
		return
	}
	m.circuitState.Set(float64(state))
}
