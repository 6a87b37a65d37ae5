package commands

import (
	"os"

	"github.com/activecm/fwgraph/pkg/risk"
	"github.com/activecm/fwgraph/pkg/uconn"
	"github.com/activecm/fwgraph/reporting"
	"github.com/activecm/fwgraph/resources"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "show-risk",
		Usage:     "Print the ranked risk report of attacking sources",
		ArgsUsage: "[csv file]",
		Flags: []cli.Flag{
			humanFlag,
			limitFlag,
			noLimitFlag,
			configFlag,
		},
		Action: showRisk,
	}

	bootstrapCommands(command)
}

func showRisk(c *cli.Context) error {
	res := resources.InitResources(c.String("config"))

	path, err := inputPath(c, res.Config.S.Input.DefaultInput)
	if err != nil {
		return err
	}

	records, err := readRecords(res, path)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	aggregated := uconn.Aggregate(records)
	if aggregated.Skipped > 0 {
		res.Log.WithField("skipped", aggregated.Skipped).Warn("Skipped malformed records")
	}

	data := risk.Score(aggregated.Edges)
	if !c.Bool("no-limit") {
		data, err = risk.Top(data, c.Int("limit"))
		if err != nil {
			return cli.NewExitError("--limit: "+err.Error(), -1)
		}
	}

	if len(data) == 0 {
		return cli.NewExitError("No results were found for "+path, -1)
	}

	if c.Bool("human-readable") {
		err = reporting.WriteRiskTable(os.Stdout, data)
	} else {
		err = reporting.WriteRiskCSV(os.Stdout, data)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	return nil
}
