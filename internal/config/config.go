// Package config provides configuration management for the form-guide pipeline.
package config

import (
	"fmt"
	"time"
	// Schedules name IANA zones; embed the database for minimal images.
	_ "time/tzdata"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Parser   ParserConfig   `mapstructure:"parser" validate:"required"`
	Scoring  ScoringConfig  `mapstructure:"scoring" validate:"required"`
	Staking  StakingConfig  `mapstructure:"staking" validate:"required"`
	Output   OutputConfig   `mapstructure:"output" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ParserConfig controls document discovery and parsing.
type ParserConfig struct {
	InputDir        string   `mapstructure:"input_dir" validate:"required"`
	Workers         int      `mapstructure:"workers" validate:"required,gt=0,lte=64"`
	CacheTTLMinutes int      `mapstructure:"cache_ttl_minutes" validate:"gte=0"`
	Matchers        []string `mapstructure:"matchers" validate:"omitempty,matchers"`
	// DebugDir receives the extracted text of documents that yielded no rows.
	DebugDir string `mapstructure:"debug_dir"`
}

// ScoringConfig selects and tunes the scoring strategy.
type ScoringConfig struct {
	Strategy    string        `mapstructure:"strategy" validate:"required,strategy"`
	Temperature float64       `mapstructure:"temperature" validate:"gt=0"`
	Weights     WeightsConfig `mapstructure:"weights"`
	// BoxValues overrides the box table, box 1 first.
	BoxValues []float64 `mapstructure:"box_values" validate:"omitempty,len=8,dive,gte=0"`
}

// WeightsConfig blends the heuristic features.
type WeightsConfig struct {
	Form float64 `mapstructure:"form" validate:"gte=0"`
	Box  float64 `mapstructure:"box" validate:"gte=0"`
	Pace float64 `mapstructure:"pace" validate:"gte=0"`
}

// StakingConfig sizes value bets.
type StakingConfig struct {
	Bankroll      float64 `mapstructure:"bankroll" validate:"required,gt=0"`
	KellyFraction float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MinEdge       float64 `mapstructure:"min_edge" validate:"gte=0,lt=1"`
	MaxStake      float64 `mapstructure:"max_stake" validate:"gte=0"`
	OddsFile      string  `mapstructure:"odds_file"`
}

// OutputConfig controls report artifacts.
type OutputConfig struct {
	Dir         string `mapstructure:"dir" validate:"required"`
	Format      string `mapstructure:"format" validate:"required,oneof=csv json"`
	FailOnEmpty bool   `mapstructure:"fail_on_empty"`
	Persist     bool   `mapstructure:"persist"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Enabled true"`
	User               string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig drives repeated runs in watch mode.
type ScheduleConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	Cron              string `mapstructure:"cron" validate:"omitempty,cron"`
	Timezone          string `mapstructure:"timezone"`
	RunTimeoutMinutes int    `mapstructure:"run_timeout_minutes" validate:"gte=0"`
}

// DefaultRunTimeout bounds a scheduled run when schedule.run_timeout_minutes is unset.
const DefaultRunTimeout = 30 * time.Minute

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CacheTTL returns the parse cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Parser.CacheTTLMinutes) * time.Minute
}

// BoxTable returns the configured box value overrides keyed by box, or nil.
func (c *Config) BoxTable() map[int]float64 {
	if len(c.Scoring.BoxValues) == 0 {
		return nil
	}
	table := make(map[int]float64, len(c.Scoring.BoxValues))
	for i, v := range c.Scoring.BoxValues {
		table[i+1] = v
	}
	return table
}

// RunTimeout returns the per-run limit for scheduled runs.
func (c *Config) RunTimeout() time.Duration {
	if c.Schedule.RunTimeoutMinutes <= 0 {
		return DefaultRunTimeout
	}
	return time.Duration(c.Schedule.RunTimeoutMinutes) * time.Minute
}

// Location returns the schedule time zone, UTC when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Schedule.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Schedule.Timezone)
}
