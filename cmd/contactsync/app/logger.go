package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/contactsync/pkg/logging"
)

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag or LOG_LEVEL
//  2. -q/--quiet (warn)
//  3. -v/--verbose (debug)
//  4. info
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)

	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller: level == zerolog.DebugLevel.String() || level == zerolog.TraceLevel.String(),
	})
}

func determineLogLevel(config *Config) string {
	if config.LogLevel != "" {
		level, ok := validateLogLevel(config.LogLevel)
		if !ok {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, level)
		}
		return level
	}

	switch {
	case config.Quiet:
		if config.Verbose {
			fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		}
		return zerolog.WarnLevel.String()
	case config.Verbose:
		return zerolog.DebugLevel.String()
	default:
		return zerolog.InfoLevel.String()
	}
}

// validateLogLevel returns level when zerolog knows it and "info" otherwise.
func validateLogLevel(level string) (string, bool) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel || parsed > zerolog.ErrorLevel {
		return zerolog.InfoLevel.String(), false
	}
	return parsed.String(), true
}
