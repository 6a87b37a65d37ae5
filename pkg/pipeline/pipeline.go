package pipeline

import (
	"fmt"

	"github.com/activecm/fwgraph/config"
	"github.com/activecm/fwgraph/pkg/graph"
	"github.com/activecm/fwgraph/pkg/hostname"
	"github.com/activecm/fwgraph/pkg/metrics"
	"github.com/activecm/fwgraph/pkg/record"
	"github.com/activecm/fwgraph/pkg/risk"
	"github.com/activecm/fwgraph/pkg/style"
	"github.com/activecm/fwgraph/pkg/uconn"
	log "github.com/sirupsen/logrus"
)

// maxLoggedSkips caps how many dropped records are logged one by one
const maxLoggedSkips = 10

type (
	// Options carries the collaborators of a run. Every field may be nil.
	Options struct {
		// Names resolves hostnames when the graph config asks for it
		Names   graph.Resolver
		Metrics *metrics.Metrics
		Log     *log.Logger
	}

	// Diagnostics describes everything that went wrong without stopping the run
	Diagnostics struct {
		RecordsRead     int
		Skipped         int
		Messages        []string
		EdgesAggregated int
		EdgesSelected   int
		Hostnames       map[hostname.Status]int
	}

	// Result is the output of a run
	Result struct {
		Report      []risk.AttackerRiskEntry
		Graph       *style.Graph
		Diagnostics Diagnostics
	}
)

// ResolveMode maps the configured resolution setting to a lookup mode. The
// second return value is false when resolution is off.
func ResolveMode(setting string) (hostname.Mode, bool) {
	switch setting {
	case config.ResolveAll:
		return hostname.ModeAll, true
	case config.ResolveInternalOnly:
		return hostname.ModeInternalOnly, true
	}
	return hostname.ModeAll, false
}

// Run aggregates records, scores the sources and builds the styled graph.
// Bad records are dropped and reported in the diagnostics. No records at
// all gives an empty report and graph.
func Run(records []record.ConnectionRecord, cfg config.GraphCfg, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Log
	if logger == nil {
		logger = log.StandardLogger()
	}

	aggregated := uconn.Aggregate(records)
	opts.Metrics.IncrementRecords(aggregated.Records)
	opts.Metrics.IncrementSkipped(aggregated.Skipped)

	diag := Diagnostics{
		RecordsRead:     aggregated.Records,
		Skipped:         aggregated.Skipped,
		EdgesAggregated: len(aggregated.Edges),
		Hostnames:       make(map[hostname.Status]int),
	}
	for i, verr := range aggregated.Errors {
		diag.Messages = append(diag.Messages, verr.Error())
		if i < maxLoggedSkips {
			logger.WithFields(log.Fields{
				"row":    verr.Row,
				"reason": verr.Reason,
			}).Warn("Skipping malformed record")
		}
	}
	if aggregated.Skipped > maxLoggedSkips {
		logger.WithField("skipped", aggregated.Skipped).Warn("Skipped malformed records")
	}

	report := risk.Score(aggregated.Edges)

	var names graph.Resolver
	mode, resolve := ResolveMode(cfg.ResolveHostnames)
	if resolve {
		names = opts.Names
	}

	g, err := graph.Build(aggregated.Edges, cfg.TopN, names, mode)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}
	diag.EdgesSelected = len(g.Edges)
	for _, n := range g.Nodes {
		diag.Hostnames[n.Hostname.Status]++
	}
	opts.Metrics.SetGraphSize(len(g.Nodes), len(g.Edges))

	logger.WithFields(log.Fields{
		"records":  diag.RecordsRead,
		"skipped":  diag.Skipped,
		"edges":    diag.EdgesAggregated,
		"selected": diag.EdgesSelected,
		"nodes":    len(g.Nodes),
	}).Info("Pipeline finished")

	return &Result{
		Report:      report,
		Graph:       style.Apply(g, cfg),
		Diagnostics: diag,
	}, nil
}
