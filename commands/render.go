package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/activecm/fwgraph/config"
	"github.com/activecm/fwgraph/pkg/hostname"
	"github.com/activecm/fwgraph/pkg/pipeline"
	"github.com/activecm/fwgraph/pkg/record"
	"github.com/activecm/fwgraph/pkg/risk"
	"github.com/activecm/fwgraph/reporting"
	"github.com/activecm/fwgraph/resources"
	"github.com/urfave/cli"
)

const allPresets = "all"

func init() {
	command := cli.Command{
		Name:      "render",
		Usage:     "Render a firewall export as an interactive graph and write the risk report",
		ArgsUsage: "[csv file]",
		Flags: []cli.Flag{
			configFlag,
			cli.StringFlag{
				Name:  "preset, p",
				Usage: "Render with `PRESET`, or every preset with \"all\"",
				Value: allPresets,
			},
			cli.StringFlag{
				Name:  "output, o",
				Usage: "Write the graph to `FILE` (single preset only, defaults to the preset's file name)",
			},
			cli.IntFlag{
				Name:  "top-n",
				Usage: "Keep the `N` heaviest connections (defaults to the preset's value)",
			},
			cli.StringFlag{
				Name:  "risk-report",
				Usage: "Write the risk report to `FILE` (defaults to the configured file name)",
			},
			cli.IntFlag{
				Name:  "top-attackers",
				Usage: "Print the `N` highest risk sources, e.g. for a block list",
			},
			cli.BoolFlag{
				Name:  "resolve-hostnames",
				Usage: "Resolve every address to a hostname",
			},
			cli.BoolFlag{
				Name:  "resolve-internal-only",
				Usage: "Only resolve internal (RFC1918) addresses",
			},
			cli.BoolFlag{
				Name:  "json",
				Usage: "Also write the graph as JSON next to the HTML file",
			},
			cli.BoolFlag{
				Name:  "open",
				Usage: "Open the rendered graph in a browser",
			},
			cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics to `FILE` in textfile collector format",
			},
		},
		Action: render,
	}

	bootstrapCommands(command)
}

// renderOptions collects the command line for a render run
type renderOptions struct {
	input        string
	presets      []string
	output       string
	riskReport   string
	topAttackers int
	writeJSON    bool
	open         bool
	metricsFile  string
	flags        config.GraphLayer
}

func render(c *cli.Context) error {
	res := resources.InitResources(c.String("config"))
	defer func() {
		if err := res.Close(); err != nil {
			res.Log.WithError(err).Error("Could not save the hostname cache")
		}
	}()

	opts, err := parseRenderOptions(c, res.Config)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	if err := runRender(res, opts); err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	return nil
}

func parseRenderOptions(c *cli.Context, conf *config.Config) (renderOptions, error) {
	input, err := inputPath(c, conf.S.Input.DefaultInput)
	if err != nil {
		return renderOptions{}, err
	}

	opts := renderOptions{
		input:        input,
		output:       c.String("output"),
		riskReport:   c.String("risk-report"),
		topAttackers: c.Int("top-attackers"),
		writeJSON:    c.Bool("json"),
		open:         c.Bool("open"),
		metricsFile:  c.String("metrics-file"),
	}
	if opts.riskReport == "" {
		opts.riskReport = conf.S.Input.DefaultRiskReport
	}

	preset := c.String("preset")
	if preset == allPresets {
		opts.presets = config.PresetNames()
	} else {
		if _, err := config.GetPreset(preset); err != nil {
			return renderOptions{}, err
		}
		opts.presets = []string{preset}
	}

	if c.IsSet("top-n") {
		topN := c.Int("top-n")
		opts.flags.TopN = &topN
	}
	if c.IsSet("top-attackers") && opts.topAttackers < 1 {
		return renderOptions{}, fmt.Errorf("--top-attackers: %w, got %d", risk.ErrInvalidLimit, opts.topAttackers)
	}

	switch {
	case c.Bool("resolve-internal-only"):
		mode := config.ResolveInternalOnly
		opts.flags.ResolveHostnames = &mode
	case c.Bool("resolve-hostnames"):
		mode := config.ResolveAll
		opts.flags.ResolveHostnames = &mode
	}
	return opts, nil
}

func runRender(res *resources.Resources, opts renderOptions) error {
	// resolve every layer up front so a bad value fails before any work
	graphCfgs := make([]config.GraphCfg, 0, len(opts.presets))
	for _, name := range opts.presets {
		cfg, err := res.Config.ResolveGraph(name, opts.flags)
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		graphCfgs = append(graphCfgs, cfg)
	}

	fmt.Println("[+] Loading firewall data:", opts.input)
	records, err := readRecords(res, opts.input)
	if err != nil {
		return err
	}
	fmt.Printf("\t[-] Loaded %d log entries\n", len(records))

	var names *hostname.Cache
	if mode, resolve := warmMode(graphCfgs); resolve {
		names, err = warmHostnames(res, records, mode)
		if err != nil {
			return err
		}
	}

	var report []risk.AttackerRiskEntry
	for n, cfg := range graphCfgs {
		fmt.Println(banner("Generating preset: " + cfg.Preset))

		pipelineOpts := pipeline.Options{Metrics: res.Metrics, Log: res.Log}
		if names != nil {
			pipelineOpts.Names = names
		}
		result, err := pipeline.Run(records, cfg, pipelineOpts)
		if err != nil {
			return err
		}
		printDiagnostics(result.Diagnostics)

		if n == 0 {
			report = result.Report
		}

		output := cfg.DefaultOutput
		if opts.output != "" && len(graphCfgs) == 1 {
			output = opts.output
		}

		export := reporting.NewExport(result, cfg, time.Now())
		if err := reporting.WriteHTMLFile(output, export, cfg); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Printf("\t[-] Graph: %d nodes, %d edges\n", len(export.Nodes), len(export.Edges))
		fmt.Println("\t[-] Generated:", output)

		if opts.writeJSON {
			jsonPath := strings.TrimSuffix(output, filepath.Ext(output)) + ".json"
			if err := reporting.WriteJSONFile(jsonPath, export); err != nil {
				return fmt.Errorf("writing %s: %w", jsonPath, err)
			}
			fmt.Println("\t[-] Generated:", jsonPath)
		}

		if opts.open {
			if err := reporting.Open(output); err != nil {
				res.Log.WithError(err).Warn("Could not open the rendered graph")
			}
		}
	}

	if err := reporting.WriteRiskReportFile(opts.riskReport, report); err != nil {
		return fmt.Errorf("writing risk report %s: %w", opts.riskReport, err)
	}
	fmt.Printf("\n[+] Risk report: %s (%d sources)\n", opts.riskReport, len(report))

	if opts.topAttackers > 0 {
		top, err := risk.Top(report, opts.topAttackers)
		if err != nil {
			return err
		}
		fmt.Printf("\nTop %d Attackers (for firewall blocking):\n", opts.topAttackers)
		for n, entry := range top {
			fmt.Printf("  %2d. %-15s (Risk Score: %d)\n", n+1, entry.SourceIP, entry.RiskScore)
		}
	}

	if opts.metricsFile != "" {
		if err := res.Metrics.WriteTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("writing metrics %s: %w", opts.metricsFile, err)
		}
	}

	fmt.Println(banner(fmt.Sprintf("All done! Generated %d visualization(s).", len(graphCfgs))))
	return nil
}

// warmMode picks the widest resolution mode any of the presets asks for
func warmMode(cfgs []config.GraphCfg) (hostname.Mode, bool) {
	mode, found := hostname.ModeInternalOnly, false
	for _, cfg := range cfgs {
		m, resolve := pipeline.ResolveMode(cfg.ResolveHostnames)
		if !resolve {
			continue
		}
		found = true
		if m == hostname.ModeAll {
			mode = m
		}
	}
	return mode, found
}

// warmHostnames resolves every address of the export in one concurrent
// batch so building the graphs only hits the cache
func warmHostnames(res *resources.Resources, records []record.ConnectionRecord, mode hostname.Mode) (*hostname.Cache, error) {
	cache, err := res.HostnameCache()
	if err != nil {
		return nil, err
	}

	fmt.Println("[+] Hostname resolution enabled")
	summary, err := cache.PreCache(uniqueIPs(records), mode, hostname.PreCacheOptions{
		Workers:  res.Config.R.Hostname.Workers,
		Timeout:  res.Config.R.Hostname.LookupTimeout,
		Progress: os.Stdout,
	})
	if err != nil {
		res.Log.WithError(err).Warn("Could not save the hostname cache")
	}
	fmt.Printf("\t[-] Resolved %d, failed %d, cached %d, skipped %d\n",
		summary.Resolved, summary.Failed, summary.Fresh, summary.Skipped)
	return cache, nil
}

func printDiagnostics(diag pipeline.Diagnostics) {
	fmt.Printf("\t[-] Aggregated %d records into %d connections\n", diag.RecordsRead-diag.Skipped, diag.EdgesAggregated)
	if diag.Skipped > 0 {
		fmt.Printf("\t[!] Skipped %d malformed records\n", diag.Skipped)
		for n, msg := range diag.Messages {
			if n == 5 {
				fmt.Printf("\t    ... and %d more\n", len(diag.Messages)-n)
				break
			}
			fmt.Println("\t    " + msg)
		}
	}
	fmt.Printf("\t[-] Visualizing %d connections\n", diag.EdgesSelected)
}
