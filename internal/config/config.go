// Package config provides application configuration loading from environment variables and .env files.
// It uses viper for flexible configuration management with sensible defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/TimurManjosov/rulesetweekly/internal/weekly"
)

// Config holds all application configuration loaded from environment variables or .env file.
// Configuration priority: environment variables > .env file > defaults.
type Config struct {
	AppEnv          string        // Application environment (dev, staging, prod)
	StoreType       string        // Storage backend type (memory, sqlite or postgres)
	SQLitePath      string        // SQLite database file, used when StoreType is sqlite
	DatabaseDSN     string        // PostgreSQL connection string, used when StoreType is postgres
	MetricsAddr     string        // Health/metrics server bind address of the publisher
	WeekStart       string        // Weekday a new weekly ruleset starts on
	LogLevel        string        // zerolog level name
	PublishInterval time.Duration // How often the publisher checks for a new week
}

const minPublishInterval = time.Minute

// Load reads configuration from environment variables and .env file (if present).
// Environment variables take precedence over .env file values.
// Returns a Config struct with all values populated (either from env or defaults).
//
// Load does NOT validate the values; use Validate() for that.
func Load() (*Config, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigFile(".env") // Optional; silently ignored if file doesn't exist
	_ = viperInstance.ReadInConfig()    // Ignore error - .env is optional
	viperInstance.AutomaticEnv()        // Read from environment variables

	setConfigDefaults(viperInstance)

	return &Config{
		AppEnv:          viperInstance.GetString("APP_ENV"),
		StoreType:       strings.ToLower(viperInstance.GetString("STORE_TYPE")),
		SQLitePath:      viperInstance.GetString("SQLITE_PATH"),
		DatabaseDSN:     viperInstance.GetString("DB_DSN"),
		MetricsAddr:     viperInstance.GetString("METRICS_ADDR"),
		WeekStart:       viperInstance.GetString("WEEK_START"),
		LogLevel:        strings.ToLower(viperInstance.GetString("LOG_LEVEL")),
		PublishInterval: viperInstance.GetDuration("PUBLISH_INTERVAL"),
	}, nil
}

// setConfigDefaults sets default values for all configuration options.
// These defaults are suitable for local development.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("STORE_TYPE", "sqlite")
	v.SetDefault("SQLITE_PATH", "rulesets.db")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("WEEK_START", "sunday")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PUBLISH_INTERVAL", "1h")
}

// StoreDSN returns the connection string for the configured store type.
func (c *Config) StoreDSN() string {
	if c.StoreType == "postgres" {
		return c.DatabaseDSN
	}
	return c.SQLitePath
}

// WeekStartDay returns WeekStart as a weekday, falling back to Sunday if it is invalid.
// Validate reports invalid values.
func (c *Config) WeekStartDay() time.Weekday {
	d, err := weekly.ParseWeekday(c.WeekStart)
	if err != nil {
		return weekly.DefaultWeekStart
	}
	return d
}

// IsProduction reports whether AppEnv names a production environment.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

// ValidationError represents a configuration validation error with details about what failed.
type ValidationError struct {
	Field   string // Name of the configuration field
	Message string // Human-readable error message
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate checks the configuration and returns the first problem found.
//
// Validation Rules:
//  1. StoreType must be one of: "memory", "sqlite", "postgres"
//  2. sqlite needs SQLitePath, postgres needs DatabaseDSN
//  3. MetricsAddr must be non-empty
//  4. WeekStart must name a weekday
//  5. LogLevel must be a zerolog level
//  6. PublishInterval must be at least one minute
//
// In production the memory store is rejected, since it would forget published history
// on every restart.
func (c *Config) Validate() error {
	switch c.StoreType {
	case "memory", "sqlite", "postgres":
	default:
		return ValidationError{
			Field:   "STORE_TYPE",
			Message: fmt.Sprintf("must be 'memory', 'sqlite' or 'postgres', got '%s'", c.StoreType),
		}
	}

	if c.StoreType == "sqlite" && strings.TrimSpace(c.SQLitePath) == "" {
		return ValidationError{
			Field:   "SQLITE_PATH",
			Message: "database path is required when STORE_TYPE=sqlite",
		}
	}
	if c.StoreType == "postgres" && c.DatabaseDSN == "" {
		return ValidationError{
			Field:   "DB_DSN",
			Message: "database DSN is required when STORE_TYPE=postgres",
		}
	}

	if c.MetricsAddr == "" {
		return ValidationError{
			Field:   "METRICS_ADDR",
			Message: "metrics server address cannot be empty",
		}
	}

	if _, err := weekly.ParseWeekday(c.WeekStart); err != nil {
		return ValidationError{
			Field:   "WEEK_START",
			Message: fmt.Sprintf("must be a weekday name, got '%s'", c.WeekStart),
		}
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return ValidationError{
			Field:   "LOG_LEVEL",
			Message: fmt.Sprintf("unknown level '%s'", c.LogLevel),
		}
	}

	if c.PublishInterval < minPublishInterval {
		return ValidationError{
			Field:   "PUBLISH_INTERVAL",
			Message: fmt.Sprintf("must be at least %s, got %s", minPublishInterval, c.PublishInterval),
		}
	}

	if c.IsProduction() && c.StoreType == "memory" {
		return ValidationError{
			Field:   "STORE_TYPE",
			Message: "memory store is not allowed in production",
		}
	}

	return nil
}
