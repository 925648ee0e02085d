package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the coordinator does with requests. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	dispatched prometheus.Counter
	applied    prometheus.Counter
	dropped    *prometheus.CounterVec
	failed     prometheus.Counter
	timeouts   prometheus.Counter
	duration   prometheus.Histogram
}

// NewMetrics creates the coordinator metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safezone",
			Subsystem: "coordinator",
			Name:      "requests_dispatched_total",
			Help:      "Boundary calculations sent to the worker.",
		}),
		applied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safezone",
			Subsystem: "coordinator",
			Name:      "results_applied_total",
			Help:      "Boundary results delivered to the consumer.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safezone",
			Subsystem: "coordinator",
			Name:      "responses_dropped_total",
			Help:      "Worker responses ignored, by reason.",
		}, []string{"reason"}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safezone",
			Subsystem: "coordinator",
			Name:      "requests_failed_total",
			Help:      "Requests answered with an error or never delivered.",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safezone",
			Subsystem: "coordinator",
			Name:      "requests_timed_out_total",
			Help:      "Requests abandoned after the calculation timeout.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "safezone",
			Subsystem: "coordinator",
			Name:      "calculation_duration_seconds",
			Help:      "Time from dispatch to an applied result.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.dispatched, m.applied, m.dropped, m.failed, m.timeouts, m.duration)
	}
	return m
}

func (m *Metrics) observeDispatch() {
	if m != nil {
		m.dispatched.Inc()
	}
}

func (m *Metrics) observeApply(seconds float64) {
	if m != nil {
		m.applied.Inc()
		m.duration.Observe(seconds)
	}
}

func (m *Metrics) observeDrop(reason string) {
	if m != nil {
		m.dropped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) observeFail() {
	if m != nil {
		m.failed.Inc()
	}
}

func (m *Metrics) observeTimeout() {
	if m != nil {
		m.timeouts.Inc()
	}
}
