package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TransitionsTotal *prometheus.CounterVec
	TransitionErrors *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_booking_transitions_total",
			Help: "Successful booking transitions by action",
		}, []string{"action"}),

		TransitionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_booking_transition_errors_total",
			Help: "Failed booking transitions by action",
		}, []string{"action"}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_http_requests_total",
			Help: "HTTP requests by method and status",
		}, []string{"method", "status"}),
	}
}

func (m *Metrics) Transition(action string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(action).Inc()
}

func (m *Metrics) TransitionError(action string) {
	if m == nil {
		return
	}
	m.TransitionErrors.WithLabelValues(action).Inc()
}
