package main

import (
	"fmt"
	"os"

	"github.com/activecm/fwgraph/commands"
	"github.com/activecm/fwgraph/config"
	"github.com/urfave/cli"
)

// Entry point of fwgraph
func main() {
	app := cli.NewApp()
	app.Name = "fwgraph"
	app.Usage = "Turn firewall connection logs into a scored attack graph."

	// Change the version string with updates so that a quick help command will
	// let the testers know what version of fwgraph they're on
	app.Version = config.Version

	// Define commands used with this application
	app.Commands = commands.Commands()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
