// config
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type LoadSettings struct {
	Workers    int `yaml:"workers"`
	Operations int `yaml:"operations"`
	KeySpace   int `yaml:"key_space"`
}

type Config struct {
	LogLevel    string        `yaml:"log_level"`
	OpTimeout   time.Duration `yaml:"op_timeout"`
	GCInterval  time.Duration `yaml:"gc_interval"`
	MetricsAddr string        `yaml:"metrics_addr"`
	Load        LoadSettings  `yaml:"load"`
}

var defaultConfig = Config{
	LogLevel:  "info",
	OpTimeout: 5 * time.Second,
	Load: LoadSettings{
		Workers:    4,
		Operations: 1000,
		KeySpace:   256,
	},
}

func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".treesetctl.yaml")
}

// LoadConfig reads path on top of the defaults. A missing file
// is not an error.
func LoadConfig(path string) (*Config, error) {
	config := defaultConfig
	if path == "" {
		return &config, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %v: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", path, err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", path, err)
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.OpTimeout <= 0 {
		return fmt.Errorf("op_timeout must be > 0")
	}
	if c.GCInterval < 0 {
		return fmt.Errorf("gc_interval must not be negative")
	}
	if c.Load.Workers < 1 {
		return fmt.Errorf("load.workers must be at least 1")
	}
	if c.Load.KeySpace < 1 {
		return fmt.Errorf("load.key_space must be at least 1")
	}
	return nil
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
