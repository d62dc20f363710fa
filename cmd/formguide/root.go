package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/form-guide/internal/config"
	"github.com/yourusername/form-guide/internal/logger"
	"github.com/yourusername/form-guide/internal/metrics"
	"github.com/yourusername/form-guide/internal/report"
	"github.com/yourusername/form-guide/internal/service"
)

var (
	configFile string
	logLevel   string
	format     string
	runDateArg string
	cfg        *config.Config
	appLog     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "formguide",
	Short: "Greyhound form-guide parser, scorer and stake calculator",
	Long: `formguide turns greyhound form guides (PDF, HTML or text) into runner rows,
scores every race with a pluggable strategy and sizes value bets against market
odds with fractional Kelly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupLogging()
		metrics.InitRegistry()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override app.log_level")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Output format: csv, json or table (default output.format)")
	rootCmd.PersistentFlags().StringVar(&runDateArg, "date", "", "Run date YYYY-MM-DD used for names without a year (default today)")

	rootCmd.AddCommand(parseCmd, scoreCmd, betsCmd, runCmd, watchCmd, versionCmd)
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	return config.Validate(cfg)
}

// setupLogging sends logs to stderr; stdout carries tables.
func setupLogging() {
	appLog = logger.New(logger.Options{
		Level:       cfg.App.LogLevel,
		Environment: cfg.App.Environment,
		Output:      os.Stderr,
	})
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"strategy":    cfg.Scoring.Strategy,
		"version":     Version,
	}).Debug("Configuration loaded")
}

func outputFormat() string {
	if format != "" {
		return format
	}
	return cfg.Output.Format
}

func runDate() (time.Time, error) {
	if runDateArg == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", runDateArg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", runDateArg, err)
	}
	return t, nil
}

// resolveInputs expands directories into their supported documents. No
// arguments means parser.input_dir.
func resolveInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{cfg.Parser.InputDir}
	}
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := service.Discover(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// writeResult renders v in the selected format. table falls back to csvFn
// when the command has no table view.
func writeResult(w io.Writer, csvFn func(io.Writer) error, tableFn func(io.Writer), v any) error {
	switch outputFormat() {
	case "json":
		return report.WriteJSON(w, v)
	case "table":
		if tableFn != nil {
			tableFn(w)
			return nil
		}
		return csvFn(w)
	case "csv":
		return csvFn(w)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat())
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "formguide %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}
