package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the translation workflow.
// Tracks accepted and rejected transitions, operation latency and the
// health of the side channels (events, signed URLs).
type Metrics struct {
	Transitions         *prometheus.CounterVec
	RejectedTransitions *prometheus.CounterVec
	OperationDuration   *prometheus.HistogramVec
	Submissions         prometheus.Counter
	EventPublishFailed  prometheus.Counter
	SignedURLFailed     prometheus.Counter
}

// New registers the translation metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docflow_translation_transitions_total",
			Help: "Accepted workflow transitions by operation and resulting status",
		}, []string{"operation", "to"}),
		RejectedTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docflow_translation_transitions_rejected_total",
			Help: "Rejected workflow operations by operation and error code",
		}, []string{"operation", "code"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docflow_translation_operation_duration_seconds",
			Help:    "Duration of workflow operations including the store round trips",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		Submissions: factory.NewCounter(prometheus.CounterOpts{
			Name: "docflow_translation_submissions_total",
			Help: "Documents accepted for translation",
		}),
		EventPublishFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "docflow_translation_event_publish_failures_total",
			Help: "Transition events that could not be published",
		}),
		SignedURLFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "docflow_translation_signed_url_failures_total",
			Help: "Download links that could not be signed",
		}),
	}
}

// IncrementTransition records an accepted transition.
func (m *Metrics) IncrementTransition(operation, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(operation, to).Inc()
}

// IncrementRejected records an operation that failed with code.
func (m *Metrics) IncrementRejected(operation, code string) {
	if m == nil {
		return
	}
	m.RejectedTransitions.WithLabelValues(operation, code).Inc()
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementSubmission() {
	if m == nil {
		return
	}
	m.Submissions.Inc()
}

func (m *Metrics) IncrementEventPublishFailed() {
	if m == nil {
		return
	}
	m.EventPublishFailed.Inc()
}

func (m *Metrics) IncrementSignedURLFailed() {
	if m == nil {
		return
	}
	m.SignedURLFailed.Inc()
}
