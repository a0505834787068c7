// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Tool ToolConfig `yaml:"tool"`
}

// ---- TOOL ----

type ToolConfig struct {
	Name       string `yaml:"name"`
	AutosaveMs int    `yaml:"autosave_interval_ms"`
	ProbeMs    int    `yaml:"probe_interval_ms"`
	LogLevel   string `yaml:"log_level"`

	Device DeviceConfig `yaml:"device"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	// Type selects the backend: "mem", "file" or "modbus".
	Type string `yaml:"type"`

	// file backend
	Path string `yaml:"path"`

	CapacityBytes int `yaml:"capacity_bytes"`

	// modbus backend
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Load reads and parses a config file. It performs no validation.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
