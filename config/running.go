package config

import (
	"fmt"
	"time"

	"github.com/blang/semver"
)

type (
	//RunningCfg holds configuration options that are parsed at run time
	RunningCfg struct {
		Hostname HostnameRunningCfg
		Version  semver.Version
	}

	//HostnameRunningCfg holds the parsed lookup settings for the hostname cache
	HostnameRunningCfg struct {
		CachePath       string
		LookupTimeout   time.Duration
		PreCacheTimeout time.Duration
		Workers         int
	}
)

// initRunningConfig uses data in the static config initialize
// the passed in running config
func initRunningConfig(static *StaticCfg, running *RunningCfg) error {
	var err error

	if static.Log.LogLevel < 0 || static.Log.LogLevel > 3 {
		return ValidationError{Field: "LogConfig.LogLevel", Reason: "must be between 0 and 3"}
	}

	if static.Hostname.LookupTimeoutMS <= 0 {
		return ValidationError{Field: "Hostname.LookupTimeoutMS", Reason: "must be positive"}
	}
	if static.Hostname.PreCacheTimeoutMS <= 0 {
		return ValidationError{Field: "Hostname.PreCacheTimeoutMS", Reason: "must be positive"}
	}
	if static.Hostname.Workers <= 0 {
		return ValidationError{Field: "Hostname.Workers", Reason: "must be positive"}
	}

	running.Hostname = HostnameRunningCfg{
		CachePath:       static.Hostname.CachePath,
		LookupTimeout:   time.Duration(static.Hostname.LookupTimeoutMS) * time.Millisecond,
		PreCacheTimeout: time.Duration(static.Hostname.PreCacheTimeoutMS) * time.Millisecond,
		Workers:         static.Hostname.Workers,
	}

	running.Version, err = semver.ParseTolerant(static.Version)
	if err != nil {
		// development builds carry no git tag
		running.Version = semver.Version{}
	}
	return nil
}

// ValidationError reports a configuration value that cannot be used
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}
