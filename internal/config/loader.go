package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/form-guide/internal/staking"
)

// EnvPrefix prefixes environment overrides, e.g. FORMGUIDE_STAKING_BANKROLL.
const EnvPrefix = "FORMGUIDE"

// DefaultPath is used when no config path is given.
const DefaultPath = "config/config.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded reads a YAML file and expands ${VAR} placeholders before
// handing it to viper.
func readExpanded(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load reads and parses the configuration from file and environment variables.
// The file must exist.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()
	if err := readExpanded(v, configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for every optional
// field. A missing file is not an error.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()
	setDefaults(v)

	if err := readExpanded(v, configPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "form-guide")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("parser.input_dir", "forms")
	v.SetDefault("parser.workers", 4)
	v.SetDefault("parser.cache_ttl_minutes", 60)
	v.SetDefault("parser.debug_dir", "")

	v.SetDefault("scoring.strategy", "heuristic")
	v.SetDefault("scoring.temperature", 1.0)
	v.SetDefault("scoring.weights.form", 0.60)
	v.SetDefault("scoring.weights.box", 0.35)
	v.SetDefault("scoring.weights.pace", 0.05)

	v.SetDefault("staking.bankroll", 1000.0)
	v.SetDefault("staking.kelly_fraction", 0.25)
	v.SetDefault("staking.min_edge", staking.DefaultMinEdge)
	v.SetDefault("staking.max_stake", 0.0)
	v.SetDefault("staking.odds_file", "")

	v.SetDefault("output.dir", "reports")
	v.SetDefault("output.format", "csv")
	v.SetDefault("output.fail_on_empty", false)
	v.SetDefault("output.persist", false)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "form_guide")
	v.SetDefault("database.user", "form_guide")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.cron", "0 7 * * *")
	v.SetDefault("schedule.timezone", "UTC")
	v.SetDefault("schedule.run_timeout_minutes", 30)
}
