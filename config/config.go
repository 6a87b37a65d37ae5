package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
)

var (
	//Version is filled at compile time with the git version of fwgraph
	Version = "undefined"
	//ExactVersion is filled at compile time with the full git description
	ExactVersion = "undefined"
)

type (
	//Config holds the configuration for the running system
	Config struct {
		R RunningCfg
		S StaticCfg
	}
)

// GetConfig retrieves a configuration in order of precedence. An explicit
// path must exist. Otherwise the per user file is tried, then the global
// file, and finally the built in defaults are used.
func GetConfig(cfgPath string) (*Config, error) {
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err != nil {
			return nil, err
		}
		return LoadConfig(cfgPath)
	}

	for _, candidate := range candidatePaths() {
		if _, err := os.Stat(candidate); err == nil {
			return LoadConfig(candidate)
		}
	}
	return LoadConfig("")
}

func candidatePaths() []string {
	var paths []string
	usr, err := user.Current()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not get user info: %s\n", err.Error())
	} else {
		paths = append(paths, filepath.Join(usr.HomeDir, ".fwgraph", "config.yaml"))
	}
	return append(paths, "/etc/fwgraph/config.yaml")
}

// LoadConfig builds the configuration from the defaults and the given yaml
// file. An empty path yields the defaults alone.
func LoadConfig(cfgPath string) (*Config, error) {
	config := &Config{}

	if err := loadStaticConfig(cfgPath, &config.S); err != nil {
		return nil, err
	}

	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	return config, nil
}

// expandConfig expands environment variables in config strings
func expandConfig(reflected reflect.Value) {
	for i := 0; i < reflected.NumField(); i++ {
		f := reflected.Field(i)
		// process sub configs
		if f.Kind() == reflect.Struct {
			expandConfig(f)
		} else if f.Kind() == reflect.String {
			f.SetString(os.ExpandEnv(f.String()))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
			strs := f.Interface().([]string)
			for i, str := range strs {
				strs[i] = os.ExpandEnv(str)
			}
			f.Set(reflect.ValueOf(strs))
		}
	}
}
