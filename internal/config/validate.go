// internal/config/validate.go
package config

import (
	"fmt"
)

// minCapacity leaves room for the header page plus one payload page.
const minCapacity = 512

var deviceTypes = map[string]bool{
	"mem":    true,
	"file":   true,
	"modbus": true,
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	tool := cfg.Tool

	if tool.AutosaveMs < 0 {
		return fmt.Errorf("tool %q: autosave_interval_ms must not be negative", tool.Name)
	}
	if tool.ProbeMs < 0 {
		return fmt.Errorf("tool %q: probe_interval_ms must not be negative", tool.Name)
	}
	if tool.LogLevel != "" && !logLevels[tool.LogLevel] {
		return fmt.Errorf("tool %q: unknown log_level %q", tool.Name, tool.LogLevel)
	}

	dev := tool.Device

	if !deviceTypes[dev.Type] {
		return fmt.Errorf("tool %q: unknown device type %q", tool.Name, dev.Type)
	}

	if dev.CapacityBytes != 0 && dev.CapacityBytes < minCapacity {
		return fmt.Errorf(
			"tool %q: capacity_bytes %d below minimum %d (header page + payload page)",
			tool.Name, dev.CapacityBytes, minCapacity,
		)
	}

	switch dev.Type {
	case "file":
		if dev.Path == "" {
			return fmt.Errorf("tool %q: file device requires path", tool.Name)
		}
	case "modbus":
		if dev.Endpoint == "" {
			return fmt.Errorf("tool %q: modbus device requires endpoint", tool.Name)
		}
		if dev.CapacityBytes%2 != 0 {
			return fmt.Errorf(
				"tool %q: modbus capacity_bytes must be even (two bytes per register)",
				tool.Name,
			)
		}
		if dev.TimeoutMs < 0 {
			return fmt.Errorf("tool %q: timeout_ms must not be negative", tool.Name)
		}
	}

	return nil
}
