package resources

import (
	"fmt"
	"os"

	"github.com/activecm/fwgraph/config"
	"github.com/activecm/fwgraph/pkg/hostname"
	"github.com/activecm/fwgraph/pkg/metrics"
	log "github.com/sirupsen/logrus"
)

type (
	// Resources provides a data structure for passing system Resources
	Resources struct {
		Config  *config.Config
		Log     *log.Logger
		Metrics *metrics.Metrics
		cache   *hostname.Cache
	}
)

// InitResources grabs the configuration file and intitializes the configuration data
// returning a *Resources object which has all of the necessary configuration information
func InitResources(userConfig string) *Resources {
	conf, err := config.GetConfig(userConfig)
	if err != nil {
		fmt.Fprintf(os.Stdout, "Failed to config: %s\n", err.Error())
		os.Exit(-1)
	}

	// Fire up the logging system
	log := initLogger(&conf.S.Log)

	if conf.S.Log.LogToFile {
		if err := addFileLogger(log, conf.S.Log.LogPath); err != nil {
			fmt.Fprintf(os.Stdout, "Failed to set up file logging: %s\n", err.Error())
			os.Exit(-1)
		}
	}

	//bundle up the system resources
	r := &Resources{
		Config:  conf,
		Log:     log,
		Metrics: metrics.New(),
	}
	return r
}

// HostnameCache opens the hostname cache on first use. An empty cache path
// keeps the cache in memory for this run only.
func (r *Resources) HostnameCache() (*hostname.Cache, error) {
	if r.cache != nil {
		return r.cache, nil
	}

	hostCfg := r.Config.R.Hostname
	var store hostname.Store
	if hostCfg.CachePath == "" {
		store = hostname.NewMemoryStore()
	} else {
		var err error
		store, err = hostname.NewSQLiteStore(hostCfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("opening hostname cache %s: %w", hostCfg.CachePath, err)
		}
	}

	r.cache = hostname.NewCache(store, r.Log,
		hostname.WithTimeout(hostCfg.LookupTimeout),
		hostname.WithMetrics(r.Metrics),
	)
	return r.cache, nil
}

// Close flushes and releases anything opened through r
func (r *Resources) Close() error {
	if r.cache == nil {
		return nil
	}
	err := r.cache.Close()
	r.cache = nil
	return err
}
