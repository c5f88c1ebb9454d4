package main

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config configures the demo server.
type Config struct {
	Addr      string `yaml:"addr"`
	DBPath    string `yaml:"db_path"`
	Key       string `yaml:"key"`
	Manifest  string `yaml:"manifest"`
	StaticURL string `yaml:"static_url"`
	Debug     bool   `yaml:"debug"`
	LogLevel  string `yaml:"log_level"`
	PageSize  int    `yaml:"page_size"`
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.DBPath == "" {
		c.DBPath = "products.db"
	}
	if c.Key == "" {
		c.Key = "example-key-must-be-32-bytes!!"
	}
	if c.Manifest == "" {
		c.Manifest = "static/webpack-stats.json"
	}
	if c.StaticURL == "" {
		c.StaticURL = "/static/"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
}

// applyEnv overrides file settings with LISTCTL_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("LISTCTL_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("LISTCTL_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("LISTCTL_KEY"); v != "" {
		c.Key = v
	}
	if v := os.Getenv("LISTCTL_DEBUG"); v != "" {
		c.Debug, _ = strconv.ParseBool(v)
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

func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.applyEnv()
	cfg.defaults()
	return cfg, nil
}
