package style

import (
	"math"
	"testing"

	"github.com/activecm/fwgraph/config"
	"github.com/activecm/fwgraph/pkg/graph"
	"github.com/activecm/fwgraph/pkg/hostname"
	"github.com/activecm/fwgraph/pkg/record"
	"github.com/activecm/fwgraph/pkg/uconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.GraphCfg {
	t.Helper()
	cfg, err := config.LoadTestingConfig()
	require.NoError(t, err)
	graphCfg, err := cfg.ResolveGraph("intensity", config.GraphLayer{})
	require.NoError(t, err)
	return graphCfg
}

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	records := []record.ConnectionRecord{
		{SourceIP: "203.0.113.1", DestIP: "10.0.0.1", Hits: 900, Classification: "scan", SourceCountry: "CN"},
		{SourceIP: "203.0.113.2", DestIP: "10.0.0.1", Hits: 900, Classification: "scan", SourceCountry: "RU"},
		{SourceIP: "203.0.113.3", DestIP: "10.0.0.2", Hits: 300, Classification: "brute", SourceCountry: "US"},
		{SourceIP: "203.0.113.4", DestIP: "10.0.0.2", Hits: 301, Classification: "brute", SourceCountry: "US"},
		{SourceIP: "10.0.0.2", DestIP: "10.0.0.3", Hits: 600, Classification: "lateral", SourceCountry: ""},
		{SourceIP: "203.0.113.5", DestIP: "10.0.0.3", Hits: 601, Classification: "scan", SourceCountry: "BR"},
	}
	g, err := graph.Build(uconn.Aggregate(records).Edges, 100, nil, hostname.ModeAll)
	require.NoError(t, err)
	return g
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		weight   int
		max      int
		expected Bucket
	}{
		{1, 900, Low},
		{300, 900, Low},
		{301, 900, Medium},
		{600, 900, Medium},
		{601, 900, High},
		{899, 900, High},
		{900, 900, Critical},
		{1, 1, Critical},
		{1, 3, Low},
		{2, 3, Medium},
	}

	for _, test := range testCases {
		assert.Equal(t, test.expected, Classify(test.weight, test.max), "%d/%d", test.weight, test.max)
	}
}

func TestApplyBuckets(t *testing.T) {
	styled := Apply(testGraph(t), testConfig(t))

	buckets := make(map[string]Bucket)
	for _, e := range styled.Edges {
		buckets[e.Source] = e.Bucket
		assert.Equal(t, e.Bucket.Color(), e.Color)
	}
	assert.Equal(t, Critical, buckets["203.0.113.1"])
	assert.Equal(t, Critical, buckets["203.0.113.2"])
	assert.Equal(t, Low, buckets["203.0.113.3"])
	assert.Equal(t, Medium, buckets["203.0.113.4"])
	assert.Equal(t, Medium, buckets["10.0.0.2"])
	assert.Equal(t, High, buckets["203.0.113.5"])
	assert.Equal(t, "critical", Critical.String())
}

func TestApplyIsPure(t *testing.T) {
	cfg := testConfig(t)
	first := Apply(testGraph(t), cfg)
	second := Apply(testGraph(t), cfg)
	assert.Equal(t, first, second)
}

func TestNodeSize(t *testing.T) {
	cfg := testConfig(t)

	assert.Equal(t, cfg.NodeSizeMin, NodeSize(0, 100, cfg))
	assert.Equal(t, cfg.NodeSizeMax, NodeSize(100, 100, cfg))

	previous := 0.0
	for v := 1; v <= 1000; v *= 3 {
		size := NodeSize(v, 1000, cfg)
		assert.Greater(t, size, previous)
		assert.GreaterOrEqual(t, size, cfg.NodeSizeMin)
		assert.LessOrEqual(t, size, cfg.NodeSizeMax)
		previous = size
	}

	cfg.NodeSizeMultiplier = 2
	assert.Equal(t, 2*cfg.NodeSizeMax, NodeSize(100, 100, cfg))
}

func TestEdgeWidth(t *testing.T) {
	cfg := testConfig(t)
	cfg.BaseEdgeWidth = 1
	cfg.EdgeWidthScale = 6
	cfg.EdgeWidthMultiplier = 1

	assert.Equal(t, 6.0, EdgeWidth(100, 100, cfg))
	assert.InDelta(t, 1+5*math.Sqrt(0.25), EdgeWidth(25, 100, cfg), 1e-9)
	assert.Less(t, EdgeWidth(1, 100, cfg), EdgeWidth(2, 100, cfg))

	cfg.EdgeWidthMultiplier = 0.5
	assert.Equal(t, 3.0, EdgeWidth(100, 100, cfg))
}

func TestApplyNodeColors(t *testing.T) {
	g := testGraph(t)
	cfg := testConfig(t)

	colors := make(map[string]string)
	for _, n := range Apply(g, cfg).Nodes {
		colors[n.IP] = n.Color
	}
	assert.Equal(t, ColorAttacker, colors["203.0.113.1"])
	assert.Equal(t, ColorTarget, colors["10.0.0.1"])
	assert.Equal(t, ColorBoth, colors["10.0.0.2"])

	cfg.ColorMode = config.ColorHeatmap
	colors = make(map[string]string)
	for _, n := range Apply(g, cfg).Nodes {
		colors[n.IP] = n.Color
	}
	assert.Equal(t, ColorCritical, colors["203.0.113.1"])
	assert.Equal(t, ColorLow, colors["203.0.113.3"])
	assert.Equal(t, ColorTarget, colors["10.0.0.1"])
}

func TestApplyLabels(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{IP: "10.0.0.1", Target: true, HitsIn: 100, Hostname: hostname.Result{Status: hostname.Resolved, Name: "web01"}},
			{IP: "10.0.0.2", Target: true, HitsIn: 5, Hostname: hostname.Result{Status: hostname.Unresolved}},
			{IP: "8.8.8.8", Attacker: true, HitsOut: 105, SourceCountry: "US"},
		},
		Edges: []graph.Edge{
			{Source: "8.8.8.8", Destination: "10.0.0.1", Weight: 100},
			{Source: "8.8.8.8", Destination: "10.0.0.2", Weight: 5},
		},
	}

	testCases := []struct {
		name      string
		labels    config.LabelStaticCfg
		threshold float64
		expected  []string
	}{
		{"addresses only", config.LabelStaticCfg{}, 0, []string{"10.0.0.1", "10.0.0.2", "8.8.8.8"}},
		{"prefer hostname", config.LabelStaticCfg{ShowInLabels: true, PreferHostname: true}, 0, []string{"web01", "10.0.0.2", "8.8.8.8"}},
		{"show both", config.LabelStaticCfg{ShowInLabels: true, ShowBoth: true}, 0, []string{"10.0.0.1\nweb01", "10.0.0.2", "8.8.8.8"}},
		{"threshold", config.LabelStaticCfg{}, 0.1, []string{"10.0.0.1", "", "8.8.8.8"}},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Labels = test.labels
			cfg.LabelThreshold = test.threshold

			var labels []string
			for _, n := range Apply(g, cfg).Nodes {
				labels = append(labels, n.Label)
			}
			assert.Equal(t, test.expected, labels)
		})
	}

	styled := Apply(g, testConfig(t))
	assert.Equal(t, "TARGET: 10.0.0.1\nHostname: web01\nIncoming Hits: 100", styled.Nodes[0].Title)
	assert.Equal(t, "ATTACKER: 8.8.8.8\nCountry: US\nTotal Hits: 105", styled.Nodes[2].Title)
	assert.Equal(t, "Hits: 5\nType: ", styled.Edges[1].Title)
	assert.Equal(t, config.CurveStraight, styled.Edges[0].Smooth)
}
