package electromagnetism

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus counters on the radiation pressure evaluations. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Evaluations prometheus.Counter // acceleration recomputations
	CacheHits   prometheus.Counter // updates served from the cache
}

// NewMetrics registers the radiation pressure counters against the provided registerer (the default one if nil).
// Registering twice against the same registerer returns the already registered counters.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	evaluations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "srp_acceleration_evaluations_total",
		Help: "Number of radiation pressure acceleration recomputations.",
	}), "srp_acceleration_evaluations_total")
	if err != nil {
		return nil, err
	}
	hits, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "srp_acceleration_cache_hits_total",
		Help: "Number of radiation pressure acceleration updates served from the time cache.",
	}), "srp_acceleration_cache_hits_total")
	if err != nil {
		return nil, err
	}
	return &Metrics{Evaluations: evaluations, CacheHits: hits}, nil
}

func (m *Metrics) incEvaluations() {
	if m == nil || m.Evaluations == nil {
		return
	}
	m.Evaluations.Inc()
}

func (m *Metrics) incCacheHits() {
	if m == nil || m.CacheHits == nil {
		return
	}
	m.CacheHits.Inc()
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
