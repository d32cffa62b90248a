// Package config resolves tool configuration from a TOML file and the
// environment.
//
// The config file lives at ~/.config/asana-deps-graph/config.toml
// (XDG_CONFIG_HOME is honored). A missing file is not an error; every
// field has a usable default. The access token resolves from, in order:
// ASANA_ACCESS_TOKEN, ASANA_PAT, then the config file. The resolved token
// is handed to the API client as an explicit value; nothing below this
// package reads the environment.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// appName is the directory name used under config and cache homes.
const appName = "asana-deps-graph"

// Cache backend names accepted in the config file.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Environment variables consulted for the access token, in order.
var tokenEnvVars = []string{"ASANA_ACCESS_TOKEN", "ASANA_PAT"}

// Config holds the tool configuration.
type Config struct {
	// AccessToken is the Asana Personal Access Token from the config
	// file. Prefer Token(), which also consults the environment.
	AccessToken string `toml:"access_token"`

	// Workspace preselects a workspace GID for the interactive project
	// picker. Optional.
	Workspace string `toml:"workspace"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig configures the HTTP response cache.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	TTLHours  int    `toml:"ttl_hours"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend:  BackendFile,
			TTLHours: 24,
		},
	}
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = defaultPath(); err != nil {
			return Default(), nil
		}
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = BackendFile
	}
	return cfg, nil
}

// Token resolves the access token: environment variables win over the
// config file. Returns empty when no credential is configured.
func (c *Config) Token() string {
	for _, key := range tokenEnvVars {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return c.AccessToken
}

// TTL returns the cache time-to-live.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// CacheDir returns the cache directory using the XDG convention
// (~/.cache/asana-deps-graph/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultPath returns the config file location using the XDG convention.
func defaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
