// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options configures a base logger.
type Options struct {
	Level       string
	Environment string
	// Output defaults to stdout.
	Output io.Writer
}

// New creates a configured logger instance. Production uses the JSON
// formatter, everything else a colored text formatter.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", opts.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if opts.Environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   out == os.Stdout,
		})
	}

	return logger
}

// NewLogger creates a logger at the given level, taking the environment from
// the ENVIRONMENT variable.
func NewLogger(logLevel string) *logrus.Logger {
	return New(Options{Level: logLevel, Environment: os.Getenv("ENVIRONMENT")})
}
