// internal/device/builder.go
package device

import (
	"fmt"
	"time"

	cfg "github.com/Wazzup77/kalico/internal/config"
)

// Build constructs the configured device backend. The returned closer
// releases transport resources; for backends without any it is a
// no-op.
func Build(dc cfg.DeviceConfig) (Device, func() error, error) {
	switch dc.Type {
	case "mem":
		// Factory-fresh image, initialized on first attach.
		return NewMemFilled(dc.CapacityBytes, 0xFF), func() error { return nil }, nil

	case "file":
		d, err := OpenFile(dc.Path)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil

	case "modbus":
		d, err := DialModbus(ModbusConfig{
			Endpoint: dc.Endpoint,
			UnitID:   dc.UnitID,
			Timeout:  time.Duration(dc.TimeoutMs) * time.Millisecond,
			Capacity: dc.CapacityBytes,
		})
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil

	default:
		return nil, nil, fmt.Errorf("device: unknown type %q", dc.Type)
	}
}
