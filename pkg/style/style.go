package style

import (
	"fmt"
	"math"
	"strings"

	"github.com/activecm/fwgraph/config"
	"github.com/activecm/fwgraph/pkg/graph"
	"github.com/activecm/fwgraph/pkg/hostname"
)

// Bucket is an edge's weight relative to the heaviest edge in the graph
type Bucket int

const (
	//Low is (0, 1/3] of the maximum weight
	Low Bucket = iota
	//Medium is (1/3, 2/3]
	Medium
	//High is (2/3, 1)
	High
	//Critical is the maximum weight itself
	Critical
)

// Colors used by the renderer
const (
	ColorLow      = "#2ecc71"
	ColorMedium   = "#f1c40f"
	ColorHigh     = "#e67e22"
	ColorCritical = "#e74c3c"

	ColorAttacker = "#bdc3c7"
	ColorTarget   = "#3498db"
	ColorBoth     = "#9b59b6"
)

var bucketNames = [...]string{"low", "medium", "high", "critical"}
var bucketColors = [...]string{ColorLow, ColorMedium, ColorHigh, ColorCritical}

func (b Bucket) String() string {
	return bucketNames[b]
}

// Color is the hex color edges of the bucket are drawn in
func (b Bucket) Color() string {
	return bucketColors[b]
}

// Classify places weight into a bucket relative to max. The bounds are
// compared in integers so a weight of exactly a third is still low.
func Classify(weight, max int) Bucket {
	switch {
	case weight >= max:
		return Critical
	case weight*3 <= max:
		return Low
	case weight*3 <= 2*max:
		return Medium
	}
	return High
}

type (
	// Node is a graph node with its rendering attributes
	Node struct {
		graph.Node
		Size  float64
		Color string
		Label string
		Title string
	}

	// Edge is a graph edge with its rendering attributes
	Edge struct {
		graph.Edge
		Bucket Bucket
		Color  string
		Width  float64
		Smooth string
		Title  string
	}

	// Graph is the styled graph handed to the renderers
	Graph struct {
		Nodes     []Node
		Edges     []Edge
		MaxVolume int
		MaxWeight int
	}
)

// Apply computes sizes, colors, widths and labels for g. It only looks at
// g and cfg, so the same input always gives the same output.
func Apply(g *graph.Graph, cfg config.GraphCfg) *Graph {
	styled := &Graph{
		Nodes:     make([]Node, 0, len(g.Nodes)),
		Edges:     make([]Edge, 0, len(g.Edges)),
		MaxVolume: g.MaxVolume(),
		MaxWeight: g.MaxWeight(),
	}

	maxOut := 0
	for _, n := range g.Nodes {
		if n.HitsOut > maxOut {
			maxOut = n.HitsOut
		}
	}

	for _, n := range g.Nodes {
		styled.Nodes = append(styled.Nodes, Node{
			Node:  n,
			Size:  NodeSize(n.Volume(), styled.MaxVolume, cfg),
			Color: nodeColor(n, maxOut, cfg.ColorMode),
			Label: nodeLabel(n, styled.MaxVolume, cfg),
			Title: nodeTitle(n),
		})
	}

	for _, e := range g.Edges {
		bucket := Classify(e.Weight, styled.MaxWeight)
		styled.Edges = append(styled.Edges, Edge{
			Edge:   e,
			Bucket: bucket,
			Color:  bucket.Color(),
			Width:  EdgeWidth(e.Weight, styled.MaxWeight, cfg),
			Smooth: cfg.CurveStyle,
			Title:  fmt.Sprintf("Hits: %d\nType: %s", e.Weight, e.PrimaryClassification),
		})
	}
	return styled
}

// NodeSize scales volume logarithmically into the configured size range,
// using maxVolume as the top of the scale
func NodeSize(volume, maxVolume int, cfg config.GraphCfg) float64 {
	size := cfg.NodeSizeMin
	if maxVolume > 0 && volume > 0 {
		ratio := math.Log1p(float64(volume)) / math.Log1p(float64(maxVolume))
		if ratio > 1 {
			ratio = 1
		}
		size = cfg.NodeSizeMin + ratio*(cfg.NodeSizeMax-cfg.NodeSizeMin)
	}
	return size * cfg.NodeSizeMultiplier
}

// EdgeWidth grows with the square root of weight/maxWeight from the base
// width up to EdgeWidthScale times the base width
func EdgeWidth(weight, maxWeight int, cfg config.GraphCfg) float64 {
	ratio := 0.0
	if maxWeight > 0 && weight > 0 {
		ratio = float64(weight) / float64(maxWeight)
		if ratio > 1 {
			ratio = 1
		}
	}
	return cfg.BaseEdgeWidth * (1 + (cfg.EdgeWidthScale-1)*math.Sqrt(ratio)) * cfg.EdgeWidthMultiplier
}

// nodeColor colors by role. In heatmap mode senders are colored by their
// outgoing volume instead.
func nodeColor(n graph.Node, maxOut int, mode string) string {
	if mode == config.ColorHeatmap && n.Attacker && maxOut > 0 {
		return Classify(n.HitsOut, maxOut).Color()
	}
	switch n.Role() {
	case graph.RoleAttacker:
		return ColorAttacker
	case graph.RoleBoth:
		return ColorBoth
	}
	return ColorTarget
}

func nodeLabel(n graph.Node, maxVolume int, cfg config.GraphCfg) string {
	if cfg.LabelThreshold > 0 && float64(n.Volume()) <= cfg.LabelThreshold*float64(maxVolume) {
		return ""
	}

	labels := cfg.Labels
	if n.Hostname.Status != hostname.Resolved || !labels.ShowInLabels {
		return n.IP
	}
	switch {
	case labels.PreferHostname:
		return n.Hostname.Name
	case labels.ShowBoth:
		return n.IP + "\n" + n.Hostname.Name
	}
	return n.IP
}

func nodeTitle(n graph.Node) string {
	var b strings.Builder
	switch n.Role() {
	case graph.RoleAttacker:
		b.WriteString("ATTACKER: ")
	case graph.RoleBoth:
		b.WriteString("ATTACKER + TARGET: ")
	default:
		b.WriteString("TARGET: ")
	}
	b.WriteString(n.IP)

	if n.Hostname.Status == hostname.Resolved {
		fmt.Fprintf(&b, "\nHostname: %s", n.Hostname.Name)
	}
	if n.Attacker {
		if n.SourceCountry != "" {
			fmt.Fprintf(&b, "\nCountry: %s", n.SourceCountry)
		}
		fmt.Fprintf(&b, "\nTotal Hits: %d", n.HitsOut)
	}
	if n.Target {
		fmt.Fprintf(&b, "\nIncoming Hits: %d", n.HitsIn)
	}
	return b.String()
}
