package graph

import (
	"fmt"
	"sort"

	"github.com/activecm/fwgraph/pkg/hostname"
	"github.com/activecm/fwgraph/pkg/uconn"
)

// SelectTop returns the n heaviest edges. Equal weights are ordered by
// source and then destination address. The input is left untouched.
func SelectTop(edges []uconn.AggregatedEdge, n int) ([]uconn.AggregatedEdge, error) {
	if n < 1 {
		return nil, fmt.Errorf("top N must be at least 1, got %d", n)
	}

	sorted := make([]uconn.AggregatedEdge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TotalHits != sorted[j].TotalHits {
			return sorted[i].TotalHits > sorted[j].TotalHits
		}
		return sorted[i].IPPair.Less(sorted[j].IPPair)
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// Build selects the n heaviest edges and turns them into a graph. When
// names is nil no hostnames are looked up.
func Build(edges []uconn.AggregatedEdge, n int, names Resolver, mode hostname.Mode) (*Graph, error) {
	selected, err := SelectTop(edges, n)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Nodes: make([]Node, 0, 2*len(selected)),
		Edges: make([]Edge, 0, len(selected)),
	}
	index := make(map[string]int)
	node := func(ip string) *Node {
		i, ok := index[ip]
		if !ok {
			i = len(g.Nodes)
			index[ip] = i
			g.Nodes = append(g.Nodes, Node{IP: ip})
		}
		return &g.Nodes[i]
	}

	for _, edge := range selected {
		src := node(edge.Src)
		if !src.Attacker {
			src.SourceCountry = edge.SourceCountry
		}
		src.Attacker = true
		src.HitsOut += edge.TotalHits

		dst := node(edge.Dst)
		dst.Target = true
		dst.HitsIn += edge.TotalHits

		g.Edges = append(g.Edges, Edge{
			Source:                edge.Src,
			Destination:           edge.Dst,
			Weight:                edge.TotalHits,
			PrimaryClassification: edge.PrimaryClassification,
			Classifications:       edge.Classifications,
		})
	}

	if names != nil {
		for i := range g.Nodes {
			g.Nodes[i].Hostname = names.Resolve(g.Nodes[i].IP, mode)
		}
	}
	return g, nil
}

// MaxVolume is the largest node volume in the graph
func (g *Graph) MaxVolume() int {
	max := 0
	for _, n := range g.Nodes {
		if v := n.Volume(); v > max {
			max = v
		}
	}
	return max
}

// MaxWeight is the largest edge weight in the graph
func (g *Graph) MaxWeight() int {
	max := 0
	for _, e := range g.Edges {
		if e.Weight > max {
			max = e.Weight
		}
	}
	return max
}
