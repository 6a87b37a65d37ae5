package risk

import (
	"errors"
	"fmt"
	"sort"

	"github.com/activecm/fwgraph/pkg/data"
	"github.com/activecm/fwgraph/pkg/uconn"
)

// TargetWeight is what each distinct target adds to a source's score
const TargetWeight = 10

// DefaultClassification names the primary classification of a source whose rows carry none
const DefaultClassification = "Misc"

// ErrInvalidLimit is returned when a report is truncated to fewer than one entry
var ErrInvalidLimit = errors.New("limit must be at least 1")

// AttackerRiskEntry summarizes one source address
type AttackerRiskEntry struct {
	SourceIP              string
	TotalHits             int
	UniqueTargets         int
	SourceCountry         string
	PrimaryClassification string
	RiskScore             int
}

type accumulator struct {
	sourceIP       string
	totalHits      int
	targets        data.StringSet
	country        string
	firstSeen      int
	classification data.Counter
}

// Score computes one entry per source address, ranked by risk score
// (highest first) with ties ordered by source address.
func Score(edges []uconn.AggregatedEdge) []AttackerRiskEntry {
	sources := make(map[string]*accumulator)
	var order []*accumulator

	for _, edge := range edges {
		acc, ok := sources[edge.Src]
		if !ok {
			acc = &accumulator{
				sourceIP:       edge.Src,
				targets:        make(data.StringSet),
				country:        edge.SourceCountry,
				firstSeen:      edge.FirstSeen,
				classification: make(data.Counter),
			}
			sources[edge.Src] = acc
			order = append(order, acc)
		}

		acc.totalHits += edge.TotalHits
		acc.targets.Insert(edge.Dst)
		if edge.FirstSeen < acc.firstSeen {
			acc.firstSeen = edge.FirstSeen
			acc.country = edge.SourceCountry
		}
		for name, hits := range edge.ClassificationHits {
			acc.classification.Add(name, hits)
		}
	}

	entries := make([]AttackerRiskEntry, 0, len(order))
	for _, acc := range order {
		primary, _ := acc.classification.Max()
		if primary == "" {
			primary = DefaultClassification
		}
		entry := AttackerRiskEntry{
			SourceIP:              acc.sourceIP,
			TotalHits:             acc.totalHits,
			UniqueTargets:         len(acc.targets),
			SourceCountry:         acc.country,
			PrimaryClassification: primary,
		}
		entry.RiskScore = entry.TotalHits + entry.UniqueTargets*TargetWeight
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RiskScore != entries[j].RiskScore {
			return entries[i].RiskScore > entries[j].RiskScore
		}
		return entries[i].SourceIP < entries[j].SourceIP
	})
	return entries
}

// Top returns the first n entries of a ranked report. n has no upper bound.
func Top(entries []AttackerRiskEntry, n int) ([]AttackerRiskEntry, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidLimit, n)
	}
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n], nil
}

// TopAttackers returns the source addresses of the first n entries, e.g.
// for a block list
func TopAttackers(entries []AttackerRiskEntry, n int) ([]string, error) {
	top, err := Top(entries, n)
	if err != nil {
		return nil, err
	}
	ips := make([]string, 0, len(top))
	for _, entry := range top {
		ips = append(ips, entry.SourceIP)
	}
	return ips, nil
}
