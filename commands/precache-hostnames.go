package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/activecm/fwgraph/pkg/hostname"
	"github.com/activecm/fwgraph/resources"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:      "precache-hostnames",
		Usage:     "Resolve every address of a firewall export into the hostname cache",
		ArgsUsage: "[csv file]",
		Flags: []cli.Flag{
			configFlag,
			cli.BoolFlag{
				Name:  "internal-only",
				Usage: "Only resolve internal (RFC1918) addresses",
			},
			cli.IntFlag{
				Name:  "workers",
				Usage: "Run at most `N` lookups at once (defaults to, and may not exceed, the configured value)",
			},
			cli.DurationFlag{
				Name:  "timeout",
				Usage: "Give up on a lookup after `DURATION` (defaults to the configured value)",
			},
		},
		Action: precacheHostnames,
	}

	bootstrapCommands(command)
}

func precacheHostnames(c *cli.Context) error {
	res := resources.InitResources(c.String("config"))

	path, err := inputPath(c, res.Config.S.Input.DefaultInput)
	if err != nil {
		return err
	}

	workers := res.Config.R.Hostname.Workers
	if c.IsSet("workers") {
		workers, err = workerLimit(c.Int("workers"), res.Config.R.Hostname.Workers)
		if err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
	}
	timeout := res.Config.R.Hostname.PreCacheTimeout
	if c.IsSet("timeout") {
		timeout = c.Duration("timeout")
		if timeout <= 0 {
			return cli.NewExitError("--timeout must be positive", -1)
		}
	}
	mode := hostname.ModeAll
	if c.Bool("internal-only") {
		mode = hostname.ModeInternalOnly
	}

	records, err := readRecords(res, path)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	cache, err := res.HostnameCache()
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	ips := uniqueIPs(records)
	fmt.Printf("[+] Pre-caching hostnames for %d addresses\n", len(ips))
	summary, err := cache.PreCache(ips, mode, hostname.PreCacheOptions{
		Workers:  workers,
		Timeout:  timeout,
		Progress: os.Stdout,
	})
	if err != nil {
		return cli.NewExitError("Could not save the hostname cache: "+err.Error(), -1)
	}

	fmt.Println("\n[+] Pre-caching complete!")
	fmt.Printf("\t[-] Resolved: %d\n", summary.Resolved)
	fmt.Printf("\t[-] Failed: %d\n", summary.Failed)
	fmt.Printf("\t[-] Already cached: %d\n", summary.Fresh)
	fmt.Printf("\t[-] Skipped (external): %d\n", summary.Skipped)
	fmt.Printf("\t[-] Took: %s\n", summary.Duration.Round(time.Millisecond))
	printCacheStats(cache.Stats(), res.Config.R.Hostname.CachePath)

	if err := res.Close(); err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	return nil
}

// workerLimit checks a requested worker count against the configured ceiling
func workerLimit(requested, configured int) (int, error) {
	if requested < 1 {
		return 0, fmt.Errorf("--workers must be at least 1, got %d", requested)
	}
	if requested > configured {
		return 0, fmt.Errorf("--workers may not exceed the configured Hostname.Workers (%d), got %d", configured, requested)
	}
	return requested, nil
}
