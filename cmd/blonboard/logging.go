package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// configureLogger adjusts base, normally built by config.Config.NewLogger, for a
// command. --log-level takes precedence over --verbose; without either the level
// of base is kept.
func configureLogger(cmd *cobra.Command, verboseFlagName string, base *logrus.Logger) (*logrus.Logger, error) {
	logLevel := base.GetLevel()

	logLevelStr, _ := cmd.Flags().GetString("log-level")
	if logLevelStr != "" {
		switch logLevelStr {
		case "debug":
			logLevel = logrus.DebugLevel
		case "info":
			logLevel = logrus.InfoLevel
		case "warn":
			logLevel = logrus.WarnLevel
		case "error":
			logLevel = logrus.ErrorLevel
		default:
			return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", logLevelStr)
		}
	} else if verbose, _ := cmd.Flags().GetBool(verboseFlagName); verbose {
		logLevel = logrus.DebugLevel
	}

	base.SetOutput(cmd.ErrOrStderr())
	base.SetLevel(logLevel)
	return base, nil
}
