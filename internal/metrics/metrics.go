package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
)

// Metrics holds Prometheus collectors for consent lifecycle operations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationLatency  *prometheus.HistogramVec
	StatusTransitions *prometheus.CounterVec
	MappingChanges    *prometheus.CounterVec
}

// New registers the consent collectors with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_lifecycle_operations_total",
			Help: "Total number of consent lifecycle operations, labeled by operation and outcome",
		}, []string{"operation", "outcome"}),
		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consent_lifecycle_operation_latency_seconds",
			Help:    "Latency of consent lifecycle operations in seconds, including the store transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_status_transitions_total",
			Help: "Total number of committed consent status transitions",
		}, []string{"to"}),
		MappingChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_mapping_changes_total",
			Help: "Account mapping rows created or deactivated by binding",
		}, []string{"change"}),
	}
}

// ObserveOperation records the outcome and duration of one operation
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(serviceerror.KindOf(err))
		if outcome == "" {
			outcome = string(serviceerror.KindPersistence)
		}
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncStatusTransition counts a committed transition into status
func (m *Metrics) IncStatusTransition(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

// AddMappingChanges counts mapping rows created and deactivated
func (m *Metrics) AddMappingChanges(created, deactivated int) {
	if m == nil {
		return
	}
	m.MappingChanges.WithLabelValues("created").Add(float64(created))
	m.MappingChanges.WithLabelValues("deactivated").Add(float64(deactivated))
}
