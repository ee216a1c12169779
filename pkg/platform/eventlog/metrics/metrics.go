package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the event publisher.
type Metrics struct {
	EventsPersisted   *prometheus.CounterVec
	PersistFailures   prometheus.Counter
	PersistDuration   prometheus.Histogram
	EventsBroadcast   *prometheus.CounterVec
	BroadcastFailures *prometheus.CounterVec
	CircuitOpen       *prometheus.GaugeVec
	BroadcastsSkipped *prometheus.CounterVec
}

// New registers the publisher metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		EventsPersisted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "policyhub_events_persisted_total",
			Help: "Total number of domain events appended to the event log",
		}, []string{"event_type"}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "policyhub_events_persist_failures_total",
			Help: "Total number of failed event log writes",
		}),
		PersistDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "policyhub_events_persist_duration_seconds",
			Help:    "Time taken to append a batch of events to the event log",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		EventsBroadcast: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "policyhub_events_broadcast_total",
			Help: "Total number of domain events handed to the broadcaster",
		}, []string{"event_type"}),
		BroadcastFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "policyhub_events_broadcast_failures_total",
			Help: "Total number of domain events the broadcaster failed to deliver",
		}, []string{"event_type"}),
		CircuitOpen: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "policyhub_broadcaster_circuit_open",
			Help: "1 while the named broadcaster's circuit breaker is open",
		}, []string{"broadcaster"}),
		BroadcastsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "policyhub_events_broadcast_skipped_total",
			Help: "Total number of broadcasts skipped because the circuit was open",
		}, []string{"broadcaster"}),
	}
}
