package reporting

import (
	"io"
	"os"
	"time"

	"github.com/activecm/fwgraph/config"
	"github.com/activecm/fwgraph/pkg/hostname"
	"github.com/activecm/fwgraph/pkg/pipeline"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Export is the graph handed to renderers
	Export struct {
		RunID       string            `json:"run_id"`
		GeneratedAt time.Time         `json:"generated_at"`
		Preset      string            `json:"preset"`
		Title       string            `json:"title"`
		Nodes       []ExportNode      `json:"nodes"`
		Edges       []ExportEdge      `json:"edges"`
		Diagnostics ExportDiagnostics `json:"diagnostics"`
	}

	// ExportNode is one node of the exported graph
	ExportNode struct {
		ID             string    `json:"id"`
		Role           string    `json:"role"`
		Hostname       string    `json:"hostname,omitempty"`
		HostnameStatus string    `json:"hostname_status"`
		Size           float64   `json:"size"`
		Color          string    `json:"color"`
		Label          string    `json:"label"`
		Title          string    `json:"title"`
		Stats          NodeStats `json:"stats"`
	}

	// NodeStats are the hit totals of a node within the rendered graph
	NodeStats struct {
		HitsIn  int    `json:"hits_in"`
		HitsOut int    `json:"hits_out"`
		Country string `json:"country,omitempty"`
	}

	// ExportEdge is one edge of the exported graph
	ExportEdge struct {
		Source         string  `json:"source"`
		Destination    string  `json:"destination"`
		Weight         int     `json:"weight"`
		ColorBucket    string  `json:"color_bucket"`
		Color          string  `json:"color"`
		Width          float64 `json:"width"`
		Smooth         string  `json:"smooth"`
		Title          string  `json:"title"`
		Classification string  `json:"classification"`
	}

	// ExportDiagnostics summarizes what the run dropped or could not resolve
	ExportDiagnostics struct {
		RecordsRead     int            `json:"records_read"`
		RecordsSkipped  int            `json:"records_skipped"`
		EdgesAggregated int            `json:"edges_aggregated"`
		EdgesSelected   int            `json:"edges_selected"`
		Hostnames       map[string]int `json:"hostnames"`
	}
)

// NewExport converts a pipeline result into the renderer format
func NewExport(result *pipeline.Result, cfg config.GraphCfg, now time.Time) Export {
	export := Export{
		RunID:       uuid.New().String(),
		GeneratedAt: now.UTC(),
		Preset:      cfg.Preset,
		Title:       cfg.Name,
		Nodes:       make([]ExportNode, 0, len(result.Graph.Nodes)),
		Edges:       make([]ExportEdge, 0, len(result.Graph.Edges)),
	}

	for _, n := range result.Graph.Nodes {
		node := ExportNode{
			ID:             n.IP,
			Role:           n.Role(),
			HostnameStatus: n.Hostname.Status.String(),
			Size:           n.Size,
			Color:          n.Color,
			Label:          n.Label,
			Title:          n.Title,
			Stats: NodeStats{
				HitsIn:  n.HitsIn,
				HitsOut: n.HitsOut,
				Country: n.SourceCountry,
			},
		}
		if n.Hostname.Status == hostname.Resolved {
			node.Hostname = n.Hostname.Name
		}
		export.Nodes = append(export.Nodes, node)
	}

	for _, e := range result.Graph.Edges {
		export.Edges = append(export.Edges, ExportEdge{
			Source:         e.Source,
			Destination:    e.Destination,
			Weight:         e.Weight,
			ColorBucket:    e.Bucket.String(),
			Color:          e.Color,
			Width:          e.Width,
			Smooth:         e.Smooth,
			Title:          e.Title,
			Classification: e.PrimaryClassification,
		})
	}

	diag := result.Diagnostics
	export.Diagnostics = ExportDiagnostics{
		RecordsRead:     diag.RecordsRead,
		RecordsSkipped:  diag.Skipped,
		EdgesAggregated: diag.EdgesAggregated,
		EdgesSelected:   diag.EdgesSelected,
		Hostnames:       make(map[string]int, len(diag.Hostnames)),
	}
	for status, count := range diag.Hostnames {
		export.Diagnostics.Hostnames[status.String()] = count
	}
	return export
}

// WriteJSON writes the export as indented JSON
func WriteJSON(w io.Writer, export Export) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// WriteJSONFile writes the export to path
func WriteJSONFile(path string, export Export) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, export); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
