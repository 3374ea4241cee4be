// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads dictimport settings from an optional YAML file and
// DICTIMPORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv is the environment variable naming the configuration file.
const PathEnv = "DICTIMPORT_CONFIG"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// ErrInvalid indicates a configuration value is invalid.
var ErrInvalid = errors.New("invalid configuration")

// Config is the dictimport configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	Import ImportConfig `yaml:"import"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"DICTIMPORT_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"DICTIMPORT_LOG_FORMAT" env-default:"text"`
}

// StoreConfig selects where imported dictionaries are stored.
type StoreConfig struct {
	Backend string `yaml:"backend" env:"DICTIMPORT_STORE"        env-default:"memory"`
	DSN     string `yaml:"dsn"     env:"DICTIMPORT_DATABASE_DSN"`

	// SkipMigrations disables running database migrations on startup.
	SkipMigrations bool `yaml:"skip_migrations" env:"DICTIMPORT_DATABASE_SKIP_MIGRATIONS"`
}

// ImportConfig holds defaults for import requests.
type ImportConfig struct {
	Language string `yaml:"language" env:"DICTIMPORT_LANGUAGE" env-default:"en"`
}

// Load reads the configuration. Values are taken from environment
// variables, then the YAML file at path, then defaults. If path is empty the
// file named by DICTIMPORT_CONFIG is used, if any. The result is not
// validated so that callers can apply overrides before calling Validate.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(PathEnv)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: reading environment: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	level := strings.ToLower(c.Log.Level)
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, level) {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	format := strings.ToLower(c.Log.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: the postgres store requires a DSN", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: store backend %q", ErrInvalid, c.Store.Backend)
	}

	if c.Import.Language == "" {
		return fmt.Errorf("%w: empty default language", ErrInvalid)
	}
	return nil
}
