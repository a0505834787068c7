// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	tool := &cfg.Tool

	if tool.Name == "" {
		tool.Name = "tool0"
	}
	if tool.AutosaveMs == 0 {
		tool.AutosaveMs = 1000
	}
	if tool.ProbeMs == 0 {
		tool.ProbeMs = 500
	}
	if tool.LogLevel == "" {
		tool.LogLevel = "info"
	}

	if tool.Device.CapacityBytes == 0 {
		tool.Device.CapacityBytes = 4096
	}
	if tool.Device.TimeoutMs == 0 {
		tool.Device.TimeoutMs = 1000
	}
}
