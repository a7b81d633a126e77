// Package config loads the standup configuration file.
//
// The file is optional: a missing file yields Default(). Values that are
// present override the defaults field by field.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/streak"
	"github.com/julianstephens/standup/internal/utils"
)

type Config struct {
	// Timezone is the IANA name of the civil calendar used for streaks and momentum.
	Timezone string `yaml:"timezone"`

	// SameDayPolicy is one of keep, reset or increment.
	SameDayPolicy string `yaml:"same_day_policy"`

	// StorageTimeout bounds each engine operation.
	StorageTimeout time.Duration `yaml:"storage_timeout"`

	// MaxRetries is how often a conflicting transaction is rerun.
	MaxRetries int `yaml:"max_retries"`

	// Database is a SQLite file path or a PostgreSQL connection string without password.
	Database string `yaml:"database,omitempty"`

	Debug bool `yaml:"debug"`
}

func Default() *Config {
	return &Config{
		Timezone:       constants.DefaultTimezone,
		SameDayPolicy:  constants.DefaultSameDayPolicy,
		StorageTimeout: constants.DefaultStorageTimeout,
		MaxRetries:     constants.DefaultMaxRetries,
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", expanded, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", expanded, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", expanded, err)
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(expanded, data, 0600)
}

func (c *Config) Validate() error {
	if _, err := utils.LoadLocation(c.Timezone); err != nil {
		return err
	}
	if _, err := streak.ParsePolicy(c.SameDayPolicy); err != nil {
		return err
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("storage_timeout must be positive, got %s", c.StorageTimeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", c.MaxRetries)
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// EngineOptions converts the config into streak engine options.
func (c *Config) EngineOptions() (streak.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return streak.Options{}, err
	}
	policy, err := streak.ParsePolicy(c.SameDayPolicy)
	if err != nil {
		return streak.Options{}, err
	}
	return streak.Options{
		Location:   loc,
		SameDay:    policy,
		Timeout:    c.StorageTimeout,
		MaxRetries: c.MaxRetries,
	}, nil
}
