// Package config loads application configuration from a YAML file and
// environment variables via cleanenv. Priority: ENV > YAML > defaults.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
)

// Config is the root application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	CPD     CPDConfig     `yaml:"cpd"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects where on-device data lives.
type StorageConfig struct {
	// DataDir holds the database file. Empty means ~/.cpdlog,
	// resolved at load time.
	DataDir string `yaml:"data_dir" env:"CPDLOG_DATA_DIR"`
	// Backend is "sqlite" (durable) or "memory" (ephemeral).
	Backend string `yaml:"backend" env:"CPDLOG_STORAGE_BACKEND" env-default:"sqlite"`
}

// CPDConfig holds the revalidation-period parameters.
type CPDConfig struct {
	// TargetHours is the fixed hour requirement for the period.
	TargetHours float64 `yaml:"target_hours" env:"CPDLOG_TARGET_HOURS" env-default:"35"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"CPDLOG_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"CPDLOG_LOG_FORMAT" env-default:"json"`
}

// DatabasePath returns the SQLite file location under the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Storage.DataDir, "cpdlog.db")
}

// Validate rejects configurations the rest of the app cannot run with.
func (c *Config) Validate() error {
	if c.CPD.TargetHours <= 0 {
		return fmt.Errorf("cpd.target_hours must be positive, got %v", c.CPD.TargetHours)
	}
	if !slices.Contains([]string{"sqlite", "memory"}, c.Storage.Backend) {
		return fmt.Errorf("storage.backend must be sqlite or memory, got %q", c.Storage.Backend)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if !slices.Contains([]string{"json", "text"}, c.Log.Format) {
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}
