package graph

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/activecm/fwgraph/pkg/hostname"
	"github.com/activecm/fwgraph/pkg/record"
	"github.com/activecm/fwgraph/pkg/uconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNames struct {
	names map[string]string
	asked []string
}

func (f *fakeNames) Resolve(ip string, mode hostname.Mode) hostname.Result {
	f.asked = append(f.asked, ip)
	if mode == hostname.ModeInternalOnly && hostname.Classify(ip) == hostname.External {
		return hostname.Result{Status: hostname.NotAttempted}
	}
	if name, ok := f.names[ip]; ok {
		return hostname.Result{Status: hostname.Resolved, Name: name}
	}
	return hostname.Result{Status: hostname.Unresolved}
}

func aggregate(records ...record.ConnectionRecord) []uconn.AggregatedEdge {
	return uconn.Aggregate(records).Edges
}

func rec(src, dst string, hits int) record.ConnectionRecord {
	return record.ConnectionRecord{SourceIP: src, DestIP: dst, Hits: hits, Classification: "scan", SourceCountry: "CN"}
}

func TestSelectTopMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	var records []record.ConnectionRecord
	for i := 0; i < 400; i++ {
		records = append(records, rec(
			fmt.Sprintf("198.51.100.%d", rng.Intn(30)),
			fmt.Sprintf("10.0.0.%d", rng.Intn(30)),
			1+rng.Intn(20),
		))
	}
	edges := aggregate(records...)

	// every weight the brute force sort says belongs in the top n
	bruteForce := func(n int) []int {
		weights := make([]int, 0, len(edges))
		for _, e := range edges {
			weights = append(weights, e.TotalHits)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(weights)))
		if n < len(weights) {
			weights = weights[:n]
		}
		return weights
	}

	for _, n := range []int{1, 2, 5, 17, 50, len(edges), len(edges) + 10} {
		selected, err := SelectTop(edges, n)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(selected), n)

		weights := make([]int, 0, len(selected))
		for _, e := range selected {
			weights = append(weights, e.TotalHits)
		}
		assert.Equal(t, bruteForce(n), weights, "n=%d", n)
	}
}

func TestSelectTopTieBreak(t *testing.T) {
	edges := aggregate(
		rec("2.2.2.2", "10.0.0.1", 5),
		rec("1.1.1.1", "10.0.0.9", 5),
		rec("1.1.1.1", "10.0.0.2", 5),
		rec("3.3.3.3", "10.0.0.1", 9),
	)

	selected, err := SelectTop(edges, 3)
	require.NoError(t, err)
	require.Len(t, selected, 3)
	assert.Equal(t, "3.3.3.3", selected[0].Src)
	assert.Equal(t, "10.0.0.2", selected[1].Dst)
	assert.Equal(t, "10.0.0.9", selected[2].Dst)

	_, err = SelectTop(edges, 0)
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	edges := aggregate(
		rec("203.0.113.5", "10.0.0.1", 40),
		rec("203.0.113.5", "10.0.0.2", 10),
		rec("10.0.0.1", "10.0.0.2", 20),
		rec("203.0.113.9", "10.0.0.3", 1),
	)
	names := &fakeNames{names: map[string]string{"10.0.0.1": "web01.corp"}}

	g, err := Build(edges, 3, names, hostname.ModeAll)
	require.NoError(t, err)

	require.Len(t, g.Edges, 3)
	assert.Equal(t, Edge{Source: "203.0.113.5", Destination: "10.0.0.1", Weight: 40, PrimaryClassification: "scan", Classifications: []string{"scan"}}, g.Edges[0])

	var ips []string
	for _, n := range g.Nodes {
		ips = append(ips, n.IP)
	}
	assert.Equal(t, []string{"203.0.113.5", "10.0.0.1", "10.0.0.2"}, ips)

	attacker := g.Nodes[0]
	assert.Equal(t, RoleAttacker, attacker.Role())
	assert.Equal(t, 50, attacker.HitsOut)
	assert.Equal(t, "CN", attacker.SourceCountry)
	assert.Equal(t, hostname.Unresolved, attacker.Hostname.Status)
	assert.Equal(t, "203.0.113.5", attacker.Label())

	both := g.Nodes[1]
	assert.Equal(t, RoleBoth, both.Role())
	assert.Equal(t, 40, both.HitsIn)
	assert.Equal(t, 20, both.HitsOut)
	assert.Equal(t, "web01.corp", both.Label())

	target := g.Nodes[2]
	assert.Equal(t, RoleTarget, target.Role())
	assert.Equal(t, 30, target.HitsIn)
	assert.Equal(t, 60, both.Volume())

	assert.Equal(t, 60, g.MaxVolume())
	assert.Equal(t, 40, g.MaxWeight())
	assert.Equal(t, ips, names.asked)
}

func TestBuildRolesScopedToSelection(t *testing.T) {
	edges := aggregate(
		rec("10.0.0.1", "10.0.0.2", 100),
		rec("10.0.0.2", "10.0.0.3", 1),
	)

	g, err := Build(edges, 1, nil, hostname.ModeAll)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, RoleTarget, g.Nodes[1].Role())
	assert.Equal(t, hostname.NotAttempted, g.Nodes[1].Hostname.Status)
}

func TestBuildInternalOnly(t *testing.T) {
	edges := aggregate(rec("8.8.8.8", "192.168.0.5", 3))
	names := &fakeNames{names: map[string]string{"8.8.8.8": "dns.google", "192.168.0.5": "nas.lan"}}

	g, err := Build(edges, 10, names, hostname.ModeInternalOnly)
	require.NoError(t, err)
	assert.Equal(t, hostname.NotAttempted, g.Nodes[0].Hostname.Status)
	assert.Equal(t, "nas.lan", g.Nodes[1].Label())
}

func TestBuildEmpty(t *testing.T) {
	g, err := Build(nil, 10, nil, hostname.ModeAll)
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.Equal(t, 0, g.MaxWeight())
}
