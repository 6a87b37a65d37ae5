package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Input column names. They are matched exactly.
const (
	ColumnSourceIP       = "Source IP"
	ColumnDestIP         = "Destination IP"
	ColumnHits           = "Hits"
	ColumnClassification = "Classification"
	ColumnSourceCountry  = "Source Country"
)

// RequiredColumns lists every column a firewall export must carry
var RequiredColumns = []string{
	ColumnSourceIP,
	ColumnDestIP,
	ColumnHits,
	ColumnClassification,
	ColumnSourceCountry,
}

type (
	// ConnectionRecord is one row of a firewall export
	ConnectionRecord struct {
		SourceIP       string
		DestIP         string
		Hits           int
		Classification string
		SourceCountry  string
	}

	// SchemaError is returned when the input lacks required columns
	SchemaError struct {
		Missing []string
	}

	// CountryLookup maps an IP address to an ISO country code
	CountryLookup interface {
		Country(ip string) string
	}
)

func (e *SchemaError) Error() string {
	return "input is missing required columns: " + strings.Join(e.Missing, ", ")
}

// ReadFile reads the firewall export at path
func ReadFile(path string, countries CountryLookup) ([]ConnectionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Read(f, countries)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// Read parses a firewall export. Columns other than the required ones are
// ignored. A Hits value that is not an integer is read as 0 so the row is
// reported and dropped during aggregation. countries may be nil; otherwise
// it fills in an empty Source Country.
func Read(r io.Reader, countries CountryLookup) ([]ConnectionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	field := func(row []string, column string) string {
		i := index[column]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []ConnectionRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := ConnectionRecord{
			SourceIP:       field(row, ColumnSourceIP),
			DestIP:         field(row, ColumnDestIP),
			Hits:           parseHits(field(row, ColumnHits)),
			Classification: field(row, ColumnClassification),
			SourceCountry:  field(row, ColumnSourceCountry),
		}
		if rec.SourceCountry == "" && countries != nil && rec.SourceIP != "" {
			rec.SourceCountry = countries.Country(rec.SourceIP)
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	var missing []string
	for _, column := range RequiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return index, nil
}

// parseHits reads a hit count, ignoring thousands separators. A blank or
// unreadable cell counts as a single hit; explicit zero or negative values
// are kept so the aggregator rejects them.
func parseHits(raw string) int {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 1
	}
	if hits, err := strconv.Atoi(raw); err == nil {
		return hits
	}
	hits, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(hits) || math.IsInf(hits, 0) {
		return 1
	}
	return int(hits)
}
