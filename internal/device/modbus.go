// internal/device/modbus.go
package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// registerClient is the exact slice of the Modbus API the backend
// uses: holding-register reads and multi-register writes.
type registerClient interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Modbus exposes a tool memory that a bridge MCU publishes as holding
// registers over Modbus TCP. Each register carries two bytes,
// big-endian, so byte address b lives in register b/2.
type Modbus struct {
	handler  *modbus.TCPClientHandler
	client   registerClient
	capacity int
}

// ModbusConfig is the minimal transport config for a register-mapped
// tool memory.
type ModbusConfig struct {
	Endpoint string
	UnitID   byte
	Timeout  time.Duration
	Capacity int
}

// DialModbus connects to the bridge and returns the register-mapped
// device.
func DialModbus(cfg ModbusConfig) (*Modbus, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("device: modbus endpoint required")
	}
	if cfg.Capacity <= 0 || cfg.Capacity%2 != 0 {
		return nil, fmt.Errorf("device: modbus capacity must be positive and even, got %d", cfg.Capacity)
	}

	handler := modbus.NewTCPClientHandler(cfg.Endpoint)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.UnitID
	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("device: modbus connect: %w", err)
	}

	return &Modbus{
		handler:  handler,
		client:   modbus.NewClient(handler),
		capacity: cfg.Capacity,
	}, nil
}

func (d *Modbus) Capacity() int { return d.capacity }

func (d *Modbus) Read(address, length int) ([]byte, error) {
	if err := checkRange("read", d.capacity, address, length); err != nil {
		return nil, err
	}
	if length == 0 {
		return []byte{}, nil
	}

	regStart := address / 2
	lead := address % 2
	regCount := (lead + length + 1) / 2

	data, err := d.client.ReadHoldingRegisters(uint16(regStart), uint16(regCount))
	if err != nil {
		return nil, fmt.Errorf("device: modbus read: %w", err)
	}
	if len(data) < lead+length {
		return nil, fmt.Errorf("device: modbus short read: got %d bytes, want %d", len(data), lead+length)
	}
	return data[lead : lead+length], nil
}

func (d *Modbus) Write(address int, data []byte) error {
	if err := checkRange("write", d.capacity, address, len(data)); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	regStart := address / 2
	lead := address % 2
	total := lead + len(data)
	trail := total % 2

	buf := make([]byte, total+(2-trail)%2)

	// Unaligned edges share a register with neighbouring bytes, so
	// those bytes are read back first and rewritten unchanged.
	if lead == 1 {
		edge, err := d.Read(address-1, 1)
		if err != nil {
			return err
		}
		buf[0] = edge[0]
	}
	copy(buf[lead:], data)
	if trail == 1 {
		end := address + len(data)
		if end < d.capacity {
			edge, err := d.Read(end, 1)
			if err != nil {
				return err
			}
			buf[len(buf)-1] = edge[0]
		}
	}

	quantity := uint16(len(buf) / 2)
	if _, err := d.client.WriteMultipleRegisters(uint16(regStart), quantity, buf); err != nil {
		return fmt.Errorf("device: modbus write: %w", err)
	}
	return nil
}

// Ping reads the first register; a transport failure means the tool
// (or its bridge) is gone.
func (d *Modbus) Ping() error {
	_, err := d.client.ReadHoldingRegisters(0, 1)
	return err
}

func (d *Modbus) Close() error {
	if d.handler == nil {
		return nil
	}
	return d.handler.Close()
}
