package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HoldersRegistered  prometheus.Counter
	HoldersDeactivated prometheus.Counter
	PoliciesAdded      *prometheus.CounterVec
	PoliciesTerminated prometheus.Counter
	VersionConflicts   *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
}

// New registers the policy holder service metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		HoldersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "policyhub_policy_holders_registered_total",
			Help: "Total number of policy holders registered",
		}),
		HoldersDeactivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "policyhub_policy_holders_deactivated_total",
			Help: "Total number of policy holders deactivated",
		}),
		PoliciesAdded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "policyhub_policies_added_total",
			Help: "Total number of policies added, by policy type",
		}, []string{"policy_type"}),
		PoliciesTerminated: factory.NewCounter(prometheus.CounterOpts{
			Name: "policyhub_policies_terminated_total",
			Help: "Total number of policies terminated",
		}),
		VersionConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "policyhub_version_conflicts_total",
			Help: "Total number of saves rejected by the optimistic version check",
		}, []string{"operation"}),
		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "policyhub_command_duration_seconds",
			Help:    "Duration of policy holder commands including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementHoldersRegistered() {
	m.HoldersRegistered.Inc()
}

func (m *Metrics) IncrementHoldersDeactivated() {
	m.HoldersDeactivated.Inc()
}

func (m *Metrics) IncrementPoliciesAdded(policyType string) {
	m.PoliciesAdded.WithLabelValues(policyType).Inc()
}

func (m *Metrics) IncrementPoliciesTerminated() {
	m.PoliciesTerminated.Inc()
}

func (m *Metrics) IncrementVersionConflict(operation string) {
	m.VersionConflicts.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveCommand(operation string, start time.Time) {
	m.CommandDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
