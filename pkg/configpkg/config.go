// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
// Environment variables take precedence.
type Config struct {
	Environment          string        `mapstructure:"GO_ENV"`
	ServerAddress        string        `mapstructure:"SERVER_ADDRESS"`
	StorageDriver        string        `mapstructure:"STORAGE_DRIVER"`
	DBDriver             string        `mapstructure:"DB_DRIVER"`
	DBSource             string        `mapstructure:"DB_SOURCE"`
	LockTimeout          time.Duration `mapstructure:"LOCK_TIMEOUT"`
	HistoryLimit         int           `mapstructure:"HISTORY_LIMIT"`
	RateLimitRPS         float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst       int           `mapstructure:"RATE_LIMIT_BURST"`
	TrackerPurgeInterval time.Duration `mapstructure:"TRACKER_PURGE_INTERVAL"`
}

var defaults = map[string]any{
	"GO_ENV":                 "production",
	"SERVER_ADDRESS":         "0.0.0.0:8080",
	"STORAGE_DRIVER":         StorageMemory,
	"DB_DRIVER":              "postgres",
	"DB_SOURCE":              "",
	"LOCK_TIMEOUT":           "5s",
	"HISTORY_LIMIT":          10,
	"RATE_LIMIT_RPS":         50,
	"RATE_LIMIT_BURST":       100,
	"TRACKER_PURGE_INTERVAL": "1h",
}

// Load read configuration from app.env in path and environment variables.
// A missing file is not an error.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DBSource == "" {
			return errors.New("DB_SOURCE is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.LockTimeout <= 0 {
		return errors.New("LOCK_TIMEOUT must be positive")
	}

	return nil
}
