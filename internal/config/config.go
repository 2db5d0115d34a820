// Package config handles scenetool configuration loading and management.
package config

import "fmt"

// Config holds all tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Loader  LoaderConfig  `yaml:"loader"`
	Server  ServerConfig  `yaml:"server"`
	Inspect InspectConfig `yaml:"inspect"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// LoaderConfig holds asset conversion settings.
type LoaderConfig struct {
	AllowEmptyNodes bool `yaml:"allow_empty_nodes"` // Load mesh-less nodes as groups
}

// ServerConfig holds inspection server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// InspectConfig holds output settings for the inspection commands.
type InspectConfig struct {
	MaxRecords int `yaml:"max_records"` // 0 = unlimited
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Loader: LoaderConfig{
			AllowEmptyNodes: false,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Inspect: InspectConfig{
			MaxRecords: 50,
		},
	}
}

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.Inspect.MaxRecords < 0 {
		return fmt.Errorf("inspect.max_records: must not be negative, got %d", c.Inspect.MaxRecords)
	}
	return nil
}
