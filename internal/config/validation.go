package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/yourusername/form-guide/internal/parser"
	"github.com/yourusername/form-guide/internal/scoring"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("strategy", validateStrategy)
	v.RegisterValidation("cron", validateCron)
	v.RegisterValidation("matchers", validateMatchers)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateStrategy(fl validator.FieldLevel) bool {
	return scoring.IsRegistered(fl.Field().String())
}

func validateCron(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateMatchers accepts a permutation of a subset of the known matcher names.
func validateMatchers(fl validator.FieldLevel) bool {
	names, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	known := make(map[string]bool)
	for _, m := range parser.DefaultMatchers() {
		known[m.Name] = true
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !known[name] || seen[name] {
			return false
		}
		seen[name] = true
	}
	return true
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Scoring.Strategy == scoring.HeuristicName {
		w := cfg.Scoring.Weights
		if w.Form+w.Box+w.Pace <= 0 {
			return fmt.Errorf("heuristic strategy requires at least one positive weight")
		}
	}

	if cfg.Schedule.Enabled && cfg.Schedule.Cron == "" {
		return fmt.Errorf("schedule.cron is required when the schedule is enabled")
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("invalid schedule timezone %q: %w", cfg.Schedule.Timezone, err)
	}

	if cfg.Output.Persist && !cfg.Database.Enabled {
		return fmt.Errorf("output.persist requires database.enabled")
	}

	if cfg.Database.Enabled {
		if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
		if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return fmt.Errorf("metrics.port is required when metrics are enabled")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable error message
func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s", err.Namespace(), err.Tag()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}
