package commands

import (
	"fmt"
	"os"

	"github.com/activecm/fwgraph/config"
	"github.com/activecm/fwgraph/resources"
	"github.com/urfave/cli"
	yaml "gopkg.in/yaml.v2"
)

func init() {
	command := cli.Command{
		Flags: []cli.Flag{
			configFlag,
		},
		Name:   "test-config",
		Usage:  "Check the configuration file for validity",
		Action: testConfiguration,
	}

	bootstrapCommands(command)
}

// testConfiguration prints out the result of parsing the config file
func testConfiguration(c *cli.Context) error {
	// First, print out the config as it was parsed
	conf, err := config.GetConfig(c.String("config"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Failed to config: %s", err.Error()), -1)
	}

	staticConfig, err := yaml.Marshal(conf.S)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n%s\n", string(staticConfig))

	// Then merge every preset so bad graph settings show up here rather than mid render
	for _, name := range config.PresetNames() {
		if _, err := conf.ResolveGraph(name, config.GraphLayer{}); err != nil {
			return cli.NewExitError(fmt.Sprintf("Preset %s: %s", name, err.Error()), -1)
		}
	}
	for name := range conf.S.Presets {
		if _, err := config.GetPreset(name); err != nil {
			return cli.NewExitError("Presets: "+err.Error(), -1)
		}
	}

	// Finally test initializing external resources like the cache and log files
	res := resources.InitResources(c.String("config"))
	defer res.Close()
	if _, err := res.HostnameCache(); err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	fmt.Println("Configuration is valid")
	return nil
}
