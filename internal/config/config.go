package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/refdoc/markdown"
)

// Config represents the refdoc configuration
type Config struct {
	MaxColumns int      `yaml:"max_columns"`
	Extensions []string `yaml:"extensions"`
	ParamsFile string   `yaml:"params_file,omitempty"`
	LogFile    string   `yaml:"log_file,omitempty"`
	LogLevel   string   `yaml:"log_level"`
	CacheFile  string   `yaml:"cache_file"`
	Workers    int      `yaml:"workers"`

	// Watch mode
	Interval time.Duration `yaml:"interval"`
	PIDFile  string        `yaml:"pid_file"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxColumns: markdown.DefaultMaxColumns,
		Extensions: []string{".md"},
		LogLevel:   "info",
		CacheFile:  CacheFilePath(),
		Workers:    4,
		Interval:   2 * time.Second,
		PIDFile:    PIDFilePath(),
	}
}

// ConfigPath returns the path to the config file
// Can be overridden for testing
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, "refdoc", "config.yaml")
}

// CacheFilePath returns the default path of the format cache
// Can be overridden for testing
var CacheFilePath = func() string {
	return filepath.Join(xdg.DataHome, "refdoc", "cache.json")
}

// PIDFilePath returns the default path of the watcher PID file
// Can be overridden for testing
var PIDFilePath = func() string {
	return filepath.Join(xdg.StateHome, "refdoc", "watch.pid")
}

// Load reads configuration from the XDG config directory
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads configuration from path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the XDG config directory
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes configuration to configPath
func (c *Config) SaveTo(configPath string) error {
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxColumns <= 0 {
		return fmt.Errorf("max_columns must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions cannot be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid extension '%s': must start with '.'", ext)
		}
	}
	if c.CacheFile == "" {
		return fmt.Errorf("cache_file cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.PIDFile == "" {
		return fmt.Errorf("pid_file cannot be empty")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// HasExtension reports whether path has one of the configured extensions.
func (c *Config) HasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.ParamsFile, err = expandPath(c.ParamsFile)
	if err != nil {
		return fmt.Errorf("failed to expand params_file: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	c.CacheFile, err = expandPath(c.CacheFile)
	if err != nil {
		return fmt.Errorf("failed to expand cache_file: %w", err)
	}

	c.PIDFile, err = expandPath(c.PIDFile)
	if err != nil {
		return fmt.Errorf("failed to expand pid_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
