package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus exports policy submissions as Prometheus metrics.
type Prometheus struct {
	calls    *prometheus.CounterVec
	errors   *prometheus.CounterVec
	elements *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewPrometheus creates the collector and registers its metrics on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := []string{"algorithm", "variant"}

	p := &Prometheus{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_calls_total",
			Help:      "Algorithm calls submitted to the device queue.",
		}, labels),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_errors_total",
			Help:      "Algorithm calls that returned an error.",
		}, labels),
		elements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_elements_total",
			Help:      "Input elements processed by algorithm calls.",
		}, labels),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "policy_call_duration_seconds",
			Help:      "Wall time of algorithm calls including staging and readback.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}

	for _, c := range []prometheus.Collector{p.calls, p.errors, p.elements, p.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// RecordSubmit implements Collector.
func (p *Prometheus) RecordSubmit(algorithm, variant string, n int, duration time.Duration, err error) {
	p.calls.WithLabelValues(algorithm, variant).Inc()
	p.elements.WithLabelValues(algorithm, variant).Add(float64(n))
	p.latency.WithLabelValues(algorithm, variant).Observe(duration.Seconds())
	if err != nil {
		p.errors.WithLabelValues(algorithm, variant).Inc()
	}
}
