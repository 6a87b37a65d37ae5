package graph

import (
	"github.com/activecm/fwgraph/pkg/hostname"
)

// Role names as handed to the renderer
const (
	RoleAttacker = "attacker"
	RoleTarget   = "target"
	RoleBoth     = "attacker+target"
)

type (
	// Graph is the directed graph of the selected edges
	Graph struct {
		// Nodes are ordered by first appearance in Edges
		Nodes []Node
		// Edges are ordered by weight, heaviest first
		Edges []Edge
	}

	// Node is one address of the graph. Roles and hit totals only count the
	// selected edges.
	Node struct {
		IP            string
		Attacker      bool
		Target        bool
		Hostname      hostname.Result
		HitsIn        int
		HitsOut       int
		SourceCountry string
	}

	// Edge is one aggregated (source, destination) pair
	Edge struct {
		Source                string
		Destination           string
		Weight                int
		PrimaryClassification string
		Classifications       []string
	}

	// Resolver attaches hostnames to nodes. *hostname.Cache implements it.
	Resolver interface {
		Resolve(ip string, mode hostname.Mode) hostname.Result
	}
)

// Role describes whether the node sent traffic, received it or both
func (n Node) Role() string {
	switch {
	case n.Attacker && n.Target:
		return RoleBoth
	case n.Attacker:
		return RoleAttacker
	}
	return RoleTarget
}

// Volume is the node's total hits in both directions
func (n Node) Volume() int {
	return n.HitsIn + n.HitsOut
}

// Label returns the hostname if one was resolved and the address otherwise
func (n Node) Label() string {
	return n.Hostname.Display(n.IP)
}
