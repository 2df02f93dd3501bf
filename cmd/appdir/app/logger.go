package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory/internal/config"
	"github.com/agentstation/appdirectory/pkg/logging"
)

// NewLogger creates the application logger.
// Log level precedence (highest to lowest):
//  1. --log-level flag
//  2. -v/--verbose flag (debug)
//  3. -q/--quiet flag (warn)
//  4. log.level from config, LOG_LEVEL or the config file
//  5. Default (info)
func NewLogger(f flags, cfg config.LogConfig) zerolog.Logger {
	level := determineLogLevel(f, cfg.Level)

	return logging.NewLoggerFromConfig(&logging.Config{
		Level:      level,
		Format:     cfg.Format,
		Output:     cfg.Output,
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
		AddCaller:  level == "debug" || level == "trace",
	})
}

// determineLogLevel applies the precedence rules documented on NewLogger.
func determineLogLevel(f flags, configured string) string {
	if f.logLevel != "" {
		validated := validateLogLevel(f.logLevel)
		if validated != f.logLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", f.logLevel, validated)
		}
		return validated
	}

	if f.verbose && f.quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if f.verbose {
		return "debug"
	}
	if f.quiet {
		return "warn"
	}

	if configured != "" {
		return validateLogLevel(configured)
	}
	return "info"
}

// validateLogLevel returns level if it is known, otherwise info.
func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	default:
		return "info"
	}
}
