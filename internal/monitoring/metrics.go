package monitoring

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/banshee-data/scanalign/internal/registration"
)

const metricsNamespace = "scanalign"

// Metrics records assembly events as Prometheus metrics. It implements
// registration.Observer.
type Metrics struct {
	attempts      *prometheus.CounterVec
	registrations prometheus.Counter
	retired       prometheus.Counter
	unregistered  prometheus.Gauge
	beacons       prometheus.Gauge
}

// NewMetrics creates the assembly metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "match_attempts_total",
			Help:      "Seed/candidate overlap searches by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "registrations_total",
			Help:      "Scans placed in the global frame, excluding the reference.",
		}),
		retired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "seeds_retired_total",
			Help:      "Registered scans that finished serving as a seed.",
		}),
		unregistered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "scans_unregistered",
			Help:      "Scans without a registration after the latest seed retired.",
		}),
		beacons: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "beacons_known",
			Help:      "Distinct beacons placed in the global frame so far.",
		}),
	}
	for _, c := range []prometheus.Collector{m.attempts, m.registrations, m.retired, m.unregistered, m.beacons} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register assembly metrics: %w", err)
		}
	}
	return m, nil
}

// MatchAttempted implements registration.Observer.
func (m *Metrics) MatchAttempted(_ string, _, _ int, matched bool) {
	if matched {
		m.attempts.WithLabelValues("matched").Inc()
		m.registrations.Inc()
		return
	}
	m.attempts.WithLabelValues("unmatched").Inc()
}

// Progress implements registration.Observer.
func (m *Metrics) Progress(p registration.Progress) {
	m.retired.Inc()
	m.unregistered.Set(float64(p.Unregistered))
	m.beacons.Set(float64(p.Beacons))
}

// WriteMetrics writes every metric family gathered from g in the
// Prometheus text exposition format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
