package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli"
)

// allCommands is filled by the init functions of the command files
var allCommands []cli.Command

// Flags shared by several commands
var (
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Use a given `CONFIG_FILE` when running this command",
		Value: "",
	}

	humanFlag = cli.BoolFlag{
		Name:  "human-readable, H",
		Usage: "Print a report instead of csv",
	}

	limitFlag = cli.IntFlag{
		Name:  "limit",
		Usage: "Print upto the `LIMIT` most significant entries",
		Value: 10,
	}

	noLimitFlag = cli.BoolFlag{
		Name:  "no-limit",
		Usage: "Print all entries",
	}
)

// bootstrapCommands simply adds a given command to the allCommands array
func bootstrapCommands(commands ...cli.Command) {
	allCommands = append(allCommands, commands...)
}

// Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	commands := make([]cli.Command, len(allCommands))
	copy(commands, allCommands)
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name < commands[j].Name
	})
	return commands
}

// inputPath returns the csv named on the command line, or the configured default
func inputPath(c *cli.Context, fallback string) (string, error) {
	path := c.Args().Get(0)
	if path == "" {
		path = fallback
	}
	if path == "" {
		return "", cli.NewExitError("Specify a firewall export to read", -1)
	}
	if _, err := os.Stat(path); err != nil {
		return "", cli.NewExitError(fmt.Sprintf("CSV file not found: %s", path), -1)
	}
	return path, nil
}
