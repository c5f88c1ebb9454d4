package main

import (
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the CLI configuration.
type Config struct {
	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`
	// Key signs state tokens printed by the token command.
	Key       string `yaml:"key"`
	Sensitive bool   `yaml:"sensitive"`
	Indent    bool   `yaml:"indent"`
}

func (c *Config) defaults() {
	if c.Format == "" {
		c.Format = "json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.Key == "" {
		c.Key = os.Getenv("LISTCTL_KEY")
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
