package booking

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for the booking flow.
type Metrics struct {
	stepsTotal     *prometheus.CounterVec
	confirmedTotal prometheus.Counter
	canceledTotal  prometheus.Counter
	backendErrors  *prometheus.CounterVec
}

// NewMetrics registers booking counters on reg (default registerer
// when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salonbot",
			Subsystem: "booking",
			Name:      "steps_total",
			Help:      "Step transitions entered, by target step",
		}, []string{"step"}),
		confirmedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salonbot",
			Subsystem: "booking",
			Name:      "confirmed_total",
			Help:      "Appointments successfully persisted",
		}),
		canceledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "salonbot",
			Subsystem: "booking",
			Name:      "canceled_total",
			Help:      "Sessions discarded by the user",
		}),
		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salonbot",
			Subsystem: "booking",
			Name:      "backend_errors_total",
			Help:      "Persistence backend failures, by operation",
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.stepsTotal, m.confirmedTotal, m.canceledTotal, m.backendErrors)
	return m
}

func (m *Metrics) ObserveStep(step Step) {
	if m == nil {
		return
	}
	m.stepsTotal.WithLabelValues(step.String()).Inc()
}

func (m *Metrics) ObserveConfirmed() {
	if m == nil {
		return
	}
	m.confirmedTotal.Inc()
}

func (m *Metrics) ObserveCanceled() {
	if m == nil {
		return
	}
	m.canceledTotal.Inc()
}

func (m *Metrics) ObserveBackendError(op string) {
	if m == nil {
		return
	}
	m.backendErrors.WithLabelValues(op).Inc()
}
