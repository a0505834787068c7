// internal/config/validate_test.go
package config

import "testing"

// helper to build a config quickly
func tool(devType, path, endpoint string, capacity int) *Config {
	return &Config{
		Tool: ToolConfig{
			Name: "t0",
			Device: DeviceConfig{
				Type:          devType,
				Path:          path,
				Endpoint:      endpoint,
				CapacityBytes: capacity,
			},
		},
	}
}

// ---- tests ----

func TestValidate_MemDevice(t *testing.T) {
	if err := Validate(tool("mem", "", "", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownDeviceType(t *testing.T) {
	if err := Validate(tool("eeprom", "", "", 0)); err == nil {
		t.Fatalf("expected device type error, got nil")
	}
}

func TestValidate_FileRequiresPath(t *testing.T) {
	if err := Validate(tool("file", "", "", 0)); err == nil {
		t.Fatalf("expected path error, got nil")
	}
	if err := Validate(tool("file", "tool0.img", "", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ModbusRequiresEndpoint(t *testing.T) {
	if err := Validate(tool("modbus", "", "", 0)); err == nil {
		t.Fatalf("expected endpoint error, got nil")
	}
	if err := Validate(tool("modbus", "", "10.0.0.5:502", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CapacityBelowMinimum(t *testing.T) {
	if err := Validate(tool("mem", "", "", 256)); err == nil {
		t.Fatalf("expected capacity error, got nil")
	}
	if err := Validate(tool("mem", "", "", 512)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ModbusCapacityMustBeEven(t *testing.T) {
	if err := Validate(tool("modbus", "", "10.0.0.5:502", 1025)); err == nil {
		t.Fatalf("expected even-capacity error, got nil")
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := tool("mem", "", "", 0)
	cfg.Tool.LogLevel = "loud"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected log level error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := tool("mem", "", "", 0)
	cfg.Tool.Name = ""
	Normalize(cfg)

	if cfg.Tool.Name != "tool0" {
		t.Fatalf("expected default name, got %q", cfg.Tool.Name)
	}
	if cfg.Tool.AutosaveMs != 1000 {
		t.Fatalf("expected default autosave 1000, got %d", cfg.Tool.AutosaveMs)
	}
	if cfg.Tool.ProbeMs != 500 {
		t.Fatalf("expected default probe 500, got %d", cfg.Tool.ProbeMs)
	}
	if cfg.Tool.Device.CapacityBytes != 4096 {
		t.Fatalf("expected default capacity 4096, got %d", cfg.Tool.Device.CapacityBytes)
	}
	if cfg.Tool.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Tool.LogLevel)
	}
}
