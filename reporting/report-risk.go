package reporting

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/activecm/fwgraph/pkg/risk"
	"github.com/olekukonko/tablewriter"
)

// RiskHeaders are the column names of the risk report
var RiskHeaders = []string{
	"Source IP", "Total Hits", "Unique Targets", "Source Country",
	"Primary Classification", "Risk Score",
}

func riskRow(entry risk.AttackerRiskEntry) []string {
	return []string{
		entry.SourceIP,
		strconv.Itoa(entry.TotalHits),
		strconv.Itoa(entry.UniqueTargets),
		entry.SourceCountry,
		entry.PrimaryClassification,
		strconv.Itoa(entry.RiskScore),
	}
}

// WriteRiskCSV writes the ranked report as CSV
func WriteRiskCSV(w io.Writer, entries []risk.AttackerRiskEntry) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(RiskHeaders); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := csvWriter.Write(riskRow(entry)); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteRiskTable writes the ranked report as a human readable table
func WriteRiskTable(w io.Writer, entries []risk.AttackerRiskEntry) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(RiskHeaders)
	for _, entry := range entries {
		table.Append(riskRow(entry))
	}
	table.Render()
	return nil
}

// WriteRiskReportFile writes the CSV report to path
func WriteRiskReportFile(path string, entries []risk.AttackerRiskEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRiskCSV(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTopAttackers writes one address per line, ready for a firewall block list
func WriteTopAttackers(w io.Writer, ips []string) error {
	for _, ip := range ips {
		if _, err := io.WriteString(w, ip+"\n"); err != nil {
			return err
		}
	}
	return nil
}
