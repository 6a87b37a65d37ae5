package commands

import (
	"fmt"
	"strconv"

	"github.com/activecm/fwgraph/pkg/record"
	"github.com/activecm/fwgraph/resources"
	"github.com/activecm/fwgraph/util"
)

// helper functions for formatting floats and integers
func f(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
func i(i int) string {
	return strconv.Itoa(i)
}

// readRecords reads the firewall export, filling in missing countries from
// the configured GeoIP database if there is one
func readRecords(res *resources.Resources, path string) ([]record.ConnectionRecord, error) {
	var countries record.CountryLookup
	if dbPath := res.Config.S.Input.GeoIPDatabase; dbPath != "" {
		geo, err := record.OpenGeoIP(dbPath)
		if err != nil {
			res.Log.WithError(err).Warn("Could not open GeoIP database, countries will not be filled in")
		} else {
			defer geo.Close()
			countries = geo
		}
	}

	records, err := record.ReadFile(path, countries)
	if err != nil {
		return nil, err
	}
	res.Log.WithField("records", len(records)).Debug("Loaded firewall export")
	return records, nil
}

// uniqueIPs lists every source and destination address once, in order of appearance
func uniqueIPs(records []record.ConnectionRecord) []string {
	seen := util.NewCache()
	var ips []string
	add := func(ip string) {
		if ip != "" && !seen.Lookup(ip) {
			ips = append(ips, ip)
		}
	}
	for _, rec := range records {
		add(rec.SourceIP)
		add(rec.DestIP)
	}
	return ips
}

func banner(title string) string {
	line := "============================================================"
	return fmt.Sprintf("\n%s\n%s\n%s", line, title, line)
}
