package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"

	"github.com/creasty/defaults"
	yaml "gopkg.in/yaml.v2"
)

type (
	//StaticCfg is the container for other static config sections
	StaticCfg struct {
		Log            LogStaticCfg          `yaml:"LogConfig"`
		Input          InputStaticCfg        `yaml:"Input"`
		Hostname       HostnameStaticCfg     `yaml:"Hostname"`
		HostnameLabels LabelStaticCfg        `yaml:"HostnameLabels"`
		Graph          GraphLayer            `yaml:"Graph"`
		Presets        map[string]GraphLayer `yaml:"Presets"`
		Version        string                `yaml:"-"`
		ExactVersion   string                `yaml:"-"`
	}

	//LogStaticCfg contains the configuration for logging
	LogStaticCfg struct {
		LogLevel  int    `yaml:"LogLevel" default:"2"`
		LogPath   string `yaml:"LogPath" default:"$HOME/.fwgraph/logs"`
		LogToFile bool   `yaml:"LogToFile"`
	}

	//InputStaticCfg names the default files read and written by the commands
	InputStaticCfg struct {
		DefaultInput      string `yaml:"DefaultInput" default:"sophos_data.csv"`
		DefaultRiskReport string `yaml:"DefaultRiskReport" default:"high_risk_attackers.csv"`
		GeoIPDatabase     string `yaml:"GeoIPDatabase"`
	}

	//HostnameStaticCfg controls reverse lookups and the hostname cache
	HostnameStaticCfg struct {
		CachePath         string `yaml:"CachePath" default:"$HOME/.fwgraph/hostnames.db"`
		LookupTimeoutMS   int    `yaml:"LookupTimeoutMS" default:"1000"`
		PreCacheTimeoutMS int    `yaml:"PreCacheTimeoutMS" default:"2000"`
		Workers           int    `yaml:"Workers" default:"50"`
	}

	//LabelStaticCfg controls whether resolved hostnames show up in node labels
	LabelStaticCfg struct {
		ShowInLabels   bool `yaml:"ShowInLabels"`
		PreferHostname bool `yaml:"PreferHostname"`
		ShowBoth       bool `yaml:"ShowBoth"`
	}
)

// loadStaticConfig initializes the static config to its defaults and then
// overlays the yaml file at cfgPath, if any
func loadStaticConfig(cfgPath string, config *StaticCfg) error {
	if err := defaults.Set(config); err != nil {
		return err
	}

	var cfgFile []byte
	if cfgPath != "" {
		var err error
		cfgFile, err = ioutil.ReadFile(cfgPath)
		if err != nil {
			return err
		}
	}

	if err := parseStaticConfig(cfgFile, config); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %s\n", err.Error())
		return err
	}
	return nil
}

// parseStaticConfig deserializes yaml over an already defaulted config and
// performs the post processing shared by every load path
func parseStaticConfig(cfgFile []byte, config *StaticCfg) error {
	err := yaml.Unmarshal(cfgFile, config)
	if err != nil {
		return err
	}

	// expand env variables, config is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(config).Elem())

	if config.Log.LogPath != "" {
		config.Log.LogPath = filepath.Clean(config.Log.LogPath)
	}
	if config.Hostname.CachePath != "" {
		config.Hostname.CachePath = filepath.Clean(config.Hostname.CachePath)
	}

	// grab the version constants set by the build process
	config.Version = Version
	config.ExactVersion = ExactVersion

	return nil
}
