// Package config loads server configuration from a YAML file, a .env
// file, and the process environment. Environment variables override
// file values; command-line flags override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/elnbridge/labarchives-mcp/internal/scope"
)

// Config is the full process configuration.
type Config struct {
	API      APIConfig   `yaml:"api"`
	Scope    ScopeConfig `yaml:"scope"`
	LogLevel string      `yaml:"log_level"`
}

// APIConfig configures the backing store client.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	AccessKeyID    string `yaml:"access_key_id"`
	AccessToken    string `yaml:"access_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ScopeConfig selects at most one scope variant. All fields empty means
// unrestricted.
type ScopeConfig struct {
	NotebookID   string `yaml:"notebook_id"`
	NotebookName string `yaml:"notebook_name"`
	Folder       string `yaml:"folder"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// .env and environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setIfPresent(&cfg.API.BaseURL, "LABARCHIVES_API_URL")
	setIfPresent(&cfg.API.AccessKeyID, "LABARCHIVES_ACCESS_KEY_ID")
	setIfPresent(&cfg.API.AccessToken, "LABARCHIVES_ACCESS_TOKEN")
	setIfPresent(&cfg.Scope.NotebookID, "LABARCHIVES_NOTEBOOK_ID")
	setIfPresent(&cfg.Scope.NotebookName, "LABARCHIVES_NOTEBOOK_NAME")
	setIfPresent(&cfg.Scope.Folder, "LABARCHIVES_FOLDER")
	setIfPresent(&cfg.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("LABARCHIVES_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.API.TimeoutSeconds = secs
		}
	}
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate enforces the configuration invariants: a base URL is
// required, at most one scope variant may be set, and a folder scope
// must normalize to a valid path.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required (or LABARCHIVES_API_URL)")
	}

	set := 0
	for _, v := range []string{c.Scope.NotebookID, c.Scope.NotebookName, c.Scope.Folder} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return errors.New("scope: at most one of notebook_id, notebook_name, folder may be set")
	}

	if c.Scope.Folder != "" {
		if _, err := scope.ParsePath(c.Scope.Folder); err != nil {
			return fmt.Errorf("scope.folder: %w", err)
		}
	}
	return nil
}

// ScopeValue builds the typed scope configuration.
func (c *Config) ScopeValue() (scope.Config, error) {
	return scope.NewConfig(c.Scope.NotebookID, c.Scope.NotebookName, c.Scope.Folder)
}

// Timeout returns the configured store timeout, zero when unset.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
