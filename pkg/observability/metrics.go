package observability

import (
	"github.com/aretw0/devicegraph/pkg/graph"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records graph transformations as Prometheus collectors.
type Metrics struct {
	expansions *prometheus.CounterVec
	spliced    prometheus.Counter
	dropped    prometheus.Counter
	links      prometheus.Counter
	pruned     *prometheus.CounterVec
	devices    *prometheus.GaugeVec
	graphLinks prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		expansions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devicegraph_expansions_total",
				Help: "Total number of assemblies expanded, by device type",
			},
			[]string{"type"},
		),
		spliced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "devicegraph_links_spliced_total",
			Help: "Total number of boundary links moved onto interior ports",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "devicegraph_links_dropped_total",
			Help: "Total number of interior links to unconnected boundary ports",
		}),
		links: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "devicegraph_links_total",
			Help: "Total number of links recorded",
		}),
		pruned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devicegraph_pruned_total",
				Help: "Total number of devices and links removed by pruning",
			},
			[]string{"kind"},
		),
		devices: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "devicegraph_devices",
				Help: "Number of devices in the observed graph, by state",
			},
			[]string{"state"},
		),
		graphLinks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "devicegraph_links",
			Help: "Number of links in the observed graph",
		}),
	}

	for _, c := range []prometheus.Collector{m.expansions, m.spliced, m.dropped, m.links, m.pruned, m.devices, m.graphLinks} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns graph hooks that feed the collectors.
func (m *Metrics) Hooks() graph.Hooks {
	return graph.Hooks{
		OnExpand: func(e graph.ExpandEvent) {
			m.expansions.WithLabelValues(e.Type).Inc()
			m.spliced.Add(float64(e.Spliced))
			m.dropped.Add(float64(e.Dropped))
		},
		OnPrune: func(e graph.PruneEvent) {
			m.pruned.WithLabelValues("devices").Add(float64(e.Devices))
			m.pruned.WithLabelValues("links").Add(float64(e.Links))
		},
		OnLink: func(graph.LinkEvent) {
			m.links.Inc()
		},
	}
}

// Observe sets the gauges from the current contents of g.
func (m *Metrics) Observe(g *graph.DeviceGraph) {
	var primitives, assemblies int
	for _, d := range g.Devices() {
		if d.IsAssembly() {
			assemblies++
		} else {
			primitives++
		}
	}
	m.devices.WithLabelValues("primitive").Set(float64(primitives))
	m.devices.WithLabelValues("assembly").Set(float64(assemblies))
	m.graphLinks.Set(float64(g.LinkCount()))
}

// ExpansionsCounter returns the expansion counter of a device type.
func (m *Metrics) ExpansionsCounter(typ string) prometheus.Counter {
	return m.expansions.WithLabelValues(typ)
}

// PrunedCounter returns the prune counter for "devices" or "links".
func (m *Metrics) PrunedCounter(kind string) prometheus.Counter {
	return m.pruned.WithLabelValues(kind)
}

// LinksCounter returns the counter of recorded links.
func (m *Metrics) LinksCounter() prometheus.Counter { return m.links }

// DevicesGauge returns the device gauge for "primitive" or "assembly".
func (m *Metrics) DevicesGauge(state string) prometheus.Gauge {
	return m.devices.WithLabelValues(state)
}

// LinksGauge returns the gauge of links in the observed graph.
func (m *Metrics) LinksGauge() prometheus.Gauge { return m.graphLinks }
