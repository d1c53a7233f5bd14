// Package metrics holds the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the back-office service.
type Metrics struct {
	TransitionsTotal     *prometheus.CounterVec
	BookingsCreatedTotal prometheus.Counter
}

// NewMetrics creates and registers the service metrics under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions by action and outcome",
		}, []string{"action", "outcome"}),
		BookingsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		}),
	}
}

// ObserveTransition records one transition attempt.
func (m *Metrics) ObserveTransition(action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.TransitionsTotal.WithLabelValues(action, outcome).Inc()
}
