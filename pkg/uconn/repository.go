package uconn

import (
	"fmt"

	"github.com/activecm/fwgraph/pkg/data"
)

// AggregatedEdge holds every record seen between one source and one
// destination, direction mattering
type AggregatedEdge struct {
	data.IPPair
	TotalHits int
	// Classifications lists the distinct classifications in lexical order
	Classifications       []string
	PrimaryClassification string
	// ClassificationHits sums hits per classification
	ClassificationHits map[string]int
	// SourceCountry comes from the first record of the pair
	SourceCountry string
	// FirstSeen is the input index of the first record of the pair
	FirstSeen int
}

// ValidationError describes a record that was dropped during aggregation
type ValidationError struct {
	// Row is the 1 based position of the record in the input
	Row    int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Row, e.Reason)
}

// Result is the output of Aggregate
type Result struct {
	// Edges are ordered by first appearance of their pair
	Edges   []AggregatedEdge
	Records int
	Skipped int
	Errors  []*ValidationError
}
