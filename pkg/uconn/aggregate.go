package uconn

import (
	"fmt"

	"github.com/activecm/fwgraph/pkg/data"
	"github.com/activecm/fwgraph/pkg/record"
)

// input accumulates the records of a single pair
type input struct {
	hosts         data.IPPair
	totalHits     int
	occurrences   data.Counter
	hits          data.Counter
	sourceCountry string
	firstSeen     int
}

// Aggregate collapses records into one edge per (source, destination)
// pair. Records with a non positive hit count or a missing address are
// skipped and reported in the result.
func Aggregate(records []record.ConnectionRecord) Result {
	result := Result{Records: len(records)}
	uconnMap := make(map[string]*input)
	var order []*input

	for i, rec := range records {
		if err := validate(i, rec); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, err)
			continue
		}

		hosts := data.NewIPPair(rec.SourceIP, rec.DestIP)
		key := hosts.MapKey()
		entry, ok := uconnMap[key]
		if !ok {
			entry = &input{
				hosts:         hosts,
				occurrences:   make(data.Counter),
				hits:          make(data.Counter),
				sourceCountry: rec.SourceCountry,
				firstSeen:     i,
			}
			uconnMap[key] = entry
			order = append(order, entry)
		}

		entry.totalHits += rec.Hits
		if rec.Classification != "" {
			entry.occurrences.Add(rec.Classification, 1)
			entry.hits.Add(rec.Classification, rec.Hits)
		}
	}

	result.Edges = make([]AggregatedEdge, 0, len(order))
	for _, entry := range order {
		result.Edges = append(result.Edges, entry.edge())
	}
	return result
}

func (i *input) edge() AggregatedEdge {
	classifications := make(data.StringSet, len(i.occurrences))
	classificationHits := make(map[string]int, len(i.hits))
	for name := range i.occurrences {
		classifications.Insert(name)
		classificationHits[name] = i.hits[name]
	}
	primary, _ := i.occurrences.Max()

	return AggregatedEdge{
		IPPair:                i.hosts,
		TotalHits:             i.totalHits,
		Classifications:       classifications.Items(),
		PrimaryClassification: primary,
		ClassificationHits:    classificationHits,
		SourceCountry:         i.sourceCountry,
		FirstSeen:             i.firstSeen,
	}
}

func validate(index int, rec record.ConnectionRecord) *ValidationError {
	switch {
	case rec.SourceIP == "":
		return &ValidationError{Row: index + 1, Reason: "empty source IP"}
	case rec.DestIP == "":
		return &ValidationError{Row: index + 1, Reason: "empty destination IP"}
	case rec.Hits <= 0:
		return &ValidationError{Row: index + 1, Reason: fmt.Sprintf("hits must be a positive integer, got %d", rec.Hits)}
	}
	return nil
}
