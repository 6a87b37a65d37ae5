package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/activecm/fwgraph/pkg/hostname"
	"github.com/activecm/fwgraph/resources"
	"github.com/activecm/fwgraph/util"
	"github.com/urfave/cli"
)

func init() {
	stats := cli.Command{
		Name:  "show-cache-stats",
		Usage: "Print hostname cache statistics",
		Flags: []cli.Flag{
			configFlag,
		},
		Action: showCacheStats,
	}

	clear := cli.Command{
		Name:  "clear-hostname-cache",
		Usage: "Remove every entry from the hostname cache",
		Flags: []cli.Flag{
			configFlag,
			cli.BoolFlag{
				Name:  "force, f",
				Usage: "Do not ask for confirmation",
			},
		},
		Action: clearHostnameCache,
	}

	bootstrapCommands(stats, clear)
}

func showCacheStats(c *cli.Context) error {
	res := resources.InitResources(c.String("config"))
	defer res.Close()

	cache, err := res.HostnameCache()
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	printCacheStats(cache.Stats(), res.Config.R.Hostname.CachePath)
	return nil
}

func printCacheStats(stats hostname.Stats, cachePath string) {
	fmt.Println("\nHostname Cache Statistics:")
	fmt.Printf("  Total cached: %d\n", stats.Entries)
	fmt.Printf("  Stale (older than %s): %d\n", util.FormatDuration(hostname.TTL), stats.Stale)
	fmt.Printf("  Internal IPs: %d\n", stats.Internal)
	fmt.Printf("  External IPs: %d\n", stats.External)
	fmt.Printf("  Failed resolutions: %d\n", stats.Failed)
	if cachePath == "" {
		fmt.Println("  Cache file: none (in memory)")
		return
	}
	fmt.Printf("  Cache file: %s\n", cachePath)
	fmt.Printf("  Cache exists: %t\n", util.Exists(cachePath))
}

func clearHostnameCache(c *cli.Context) error {
	if !c.Bool("force") {
		fmt.Print("Are you sure you want to clear the hostname cache [y/N] ")

		read := bufio.NewReader(os.Stdin)
		response, err := read.ReadString('\n')
		if err != nil {
			return cli.NewExitError(err.Error(), -1)
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			return cli.NewExitError("Hostname cache was not cleared.", 0)
		}
	}

	res := resources.InitResources(c.String("config"))
	defer res.Close()

	cache, err := res.HostnameCache()
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	if err := cache.Clear(); err != nil {
		return cli.NewExitError("Error: could not clear hostname cache: "+err.Error(), -1)
	}
	fmt.Println("Hostname cache cleared")
	return nil
}
