package metrics

import "github.com/prometheus/client_golang/prometheus"

// LoadBalancerMetrics tracks threshold breaches and the relocations raised
// for them.
type LoadBalancerMetrics struct {
	breaches    prometheus.Counter
	relocations prometheus.Counter
	units       prometheus.Counter
	unplaced    prometheus.Counter
}

func NewLoadBalancerMetrics(reg prometheus.Registerer) *LoadBalancerMetrics {
	if reg == nil {
		return &LoadBalancerMetrics{}
	}
	m := &LoadBalancerMetrics{
		breaches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redistrib_loadbalancer_breaches_total",
			Help: "Inventories found above their alert threshold.",
		}),
		relocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redistrib_loadbalancer_relocations_total",
			Help: "Relocations recommended by the load balancer.",
		}),
		units: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redistrib_loadbalancer_relocated_units_total",
			Help: "Units covered by recommended relocations.",
		}),
		unplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "redistrib_loadbalancer_unplaced_total",
			Help: "Breaches for which no inventory could take the excess.",
		}),
	}
	reg.MustRegister(m.breaches, m.relocations, m.units, m.unplaced)
	return m
}

func (m *LoadBalancerMetrics) IncBreach() {
	if m == nil || m.breaches == nil {
		return
	}
	m.breaches.Inc()
}

// ObserveRelocation counts one recommended relocation of quantity units.
func (m *LoadBalancerMetrics) ObserveRelocation(quantity int) {
	if m == nil || m.relocations == nil {
		return
	}
	m.relocations.Inc()
	m.units.Add(float64(quantity))
}

func (m *LoadBalancerMetrics) IncUnplaced() {
	if m == nil || m.unplaced == nil {
		return
	}
	m.unplaced.Inc()
}
