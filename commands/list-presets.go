package commands

import (
	"fmt"
	"os"

	"github.com/activecm/fwgraph/config"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "list-presets",
		Usage: "List the available visualization presets",
		Flags: []cli.Flag{
			humanFlag,
		},
		Action: listPresets,
	}

	bootstrapCommands(command)
}

func listPresets(c *cli.Context) error {
	names := config.PresetNames()

	if !c.Bool("human-readable") {
		fmt.Println("Available Visualization Presets:")
		fmt.Println()
		for _, name := range names {
			preset, _ := config.GetPreset(name)
			fmt.Printf("  %-12s - %s\n", name, preset.Description)
		}
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Preset", "Name", "Top N", "Node Sizes", "Colors", "Output"})
	for _, name := range names {
		preset, _ := config.GetPreset(name)
		layer := preset.Layer
		sizes := fmt.Sprintf("%s-%s", f(layer.NodeSizeRange[0]), f(layer.NodeSizeRange[1]))
		table.Append([]string{name, preset.Name, i(*layer.TopN), sizes, *layer.ColorMode, preset.DefaultOutput})
	}
	table.Render()
	return nil
}
