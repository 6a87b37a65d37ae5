package resources

import (
	"os"
	"path/filepath"
	"time"

	"github.com/activecm/fwgraph/config"
	"github.com/activecm/fwgraph/util"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
)

// logLevels maps the LogLevel config value onto logrus levels
var logLevels = []log.Level{
	log.ErrorLevel,
	log.WarnLevel,
	log.InfoLevel,
	log.DebugLevel,
}

// initLogger creates the stderr logger. Levels outside the table fall back to warnings.
func initLogger(logConfig *config.LogStaticCfg) *log.Logger {
	logger := &log.Logger{
		Out:       os.Stderr,
		Formatter: &log.TextFormatter{FullTimestamp: true},
		Hooks:     make(log.LevelHooks),
		Level:     log.WarnLevel,
	}

	if logConfig.LogLevel >= 0 && logConfig.LogLevel < len(logLevels) {
		logger.Level = logLevels[logConfig.LogLevel]
	}
	return logger
}

// addFileLogger writes each level to its own file in a per-run directory under logPath
func addFileLogger(logger *log.Logger, logPath string) error {
	runDir := filepath.Join(logPath, time.Now().Format(util.TimeFormat))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	paths := make(lfshook.PathMap)
	for _, level := range log.AllLevels {
		paths[level] = filepath.Join(runDir, level.String()+".log")
	}
	logger.Hooks.Add(lfshook.NewHook(paths, &log.JSONFormatter{}))
	return nil
}
