package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for one fwgraph run on a private
// registry.
type Metrics struct {
	registry       *prometheus.Registry
	RecordsTotal   prometheus.Counter
	RecordsSkipped prometheus.Counter
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	Lookups        prometheus.Counter
	LookupFailures prometheus.Counter
	GraphEdges     prometheus.Gauge
	GraphNodes     prometheus.Gauge
}

// New creates a Metrics instance with all collectors registered
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fwgraph_records_total",
			Help: "Total number of connection records read",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fwgraph_records_skipped_total",
			Help: "Total number of connection records skipped as malformed",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fwgraph_hostname_cache_hits_total",
			Help: "Hostname lookups answered from a fresh cache entry",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fwgraph_hostname_cache_misses_total",
			Help: "Hostname lookups with no fresh cache entry",
		}),
		Lookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fwgraph_reverse_lookups_total",
			Help: "Reverse DNS lookups issued",
		}),
		LookupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fwgraph_reverse_lookup_failures_total",
			Help: "Reverse DNS lookups that failed or timed out",
		}),
		GraphEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fwgraph_graph_edges",
			Help: "Edges in the most recently built graph",
		}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fwgraph_graph_nodes",
			Help: "Nodes in the most recently built graph",
		}),
	}

	m.registry.MustRegister(
		m.RecordsTotal, m.RecordsSkipped,
		m.CacheHits, m.CacheMisses, m.Lookups, m.LookupFailures,
		m.GraphEdges, m.GraphNodes,
	)
	return m
}

// Registry exposes the private registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric to path for node_exporter's textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// The helpers below accept a nil receiver.

// IncrementRecords adds n to the records read counter
func (m *Metrics) IncrementRecords(n int) {
	if m == nil {
		return
	}
	m.RecordsTotal.Add(float64(n))
}

// IncrementSkipped adds n to the skipped records counter
func (m *Metrics) IncrementSkipped(n int) {
	if m == nil {
		return
	}
	m.RecordsSkipped.Add(float64(n))
}

// IncrementCacheHit counts a lookup answered by the cache
func (m *Metrics) IncrementCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// IncrementCacheMiss counts a lookup the cache could not answer
func (m *Metrics) IncrementCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// IncrementLookup counts an issued reverse lookup and whether it failed
func (m *Metrics) IncrementLookup(failed bool) {
	if m == nil {
		return
	}
	m.Lookups.Inc()
	if failed {
		m.LookupFailures.Inc()
	}
}

// SetGraphSize records the size of the graph just built
func (m *Metrics) SetGraphSize(nodes, edges int) {
	if m == nil {
		return
	}
	m.GraphNodes.Set(float64(nodes))
	m.GraphEdges.Set(float64(edges))
}
