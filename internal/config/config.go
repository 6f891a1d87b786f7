// Package config provides configuration management for promptsync.
// It supports YAML configuration files, environment variables, and sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/klauern/promptsync/internal/model"
	"github.com/klauern/promptsync/internal/util"
)

// Config represents the complete promptsync configuration.
type Config struct {
	// Agents maps an agent name to a base directory override
	Agents map[string]string `yaml:"agents,omitempty"`

	// Convert configures default conversion behavior
	Convert ConvertConfig `yaml:"convert"`

	// Cache configures repository metadata caching
	Cache CacheConfig `yaml:"cache"`

	// Download configures repository downloads
	Download DownloadConfig `yaml:"download"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// ConvertConfig holds conversion settings.
type ConvertConfig struct {
	// RemoveUnsupported drops foreign fields instead of tagging them
	RemoveUnsupported bool `yaml:"remove_unsupported"`
	// Workers is the number of concurrent conversion workers
	Workers int `yaml:"workers"`
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	// Enabled enables or disables caching
	Enabled bool `yaml:"enabled"`
	// TTL is the time-to-live for cache entries
	TTL time.Duration `yaml:"ttl"`
	// Location is the cache directory path
	Location string `yaml:"location"`
}

// DownloadConfig holds repository download settings.
type DownloadConfig struct {
	// DefaultFrom is the format repositories are assumed to use
	DefaultFrom string `yaml:"default_from"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			RemoveUnsupported: false,
			Workers:           4,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTL:      time.Hour,
			Location: util.CacheDir(),
		},
		Download: DownloadConfig{
			DefaultFrom: string(model.Claude),
		},
		Output: OutputConfig{
			Color:   "auto",
			Verbose: false,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.ConfigDir(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	configPath := FilePath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(configPath, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern PROMPTSYNC_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("PROMPTSYNC_CONVERT_REMOVE_UNSUPPORTED"); v != "" {
		c.Convert.RemoveUnsupported = parseBool(v)
	}

	if v := os.Getenv("PROMPTSYNC_CACHE_ENABLED"); v != "" {
		c.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("PROMPTSYNC_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = d
		}
	}
	if v := os.Getenv("PROMPTSYNC_CACHE_DIR"); v != "" {
		c.Cache.Location = v
	}

	if v := os.Getenv("PROMPTSYNC_DOWNLOAD_FROM"); v != "" {
		c.Download.DefaultFrom = v
	}

	if v := os.Getenv("PROMPTSYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("PROMPTSYNC_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// BaseDir returns the base directory for an agent, honoring a config
// override before falling back to the built-in defaults. Per-agent
// environment variables still win; util.BaseDir handles those.
func (c *Config) BaseDir(agent model.Agent) string {
	if os.Getenv(util.EnvVar(agent)) == "" {
		if dir, ok := c.Agents[string(agent)]; ok && dir != "" {
			return util.ExpandPath(dir)
		}
	}
	return util.BaseDir(agent)
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
