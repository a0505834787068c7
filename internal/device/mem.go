// internal/device/mem.go
package device

// Mem is an in-memory device image. It backs tests and one-shot
// tooling where no physical memory exists.
type Mem struct {
	buf []byte
}

// NewMem returns a zero-filled in-memory device.
func NewMem(capacity int) *Mem {
	return &Mem{buf: make([]byte, capacity)}
}

// NewMemFilled returns an in-memory device with every byte set to
// fill. A factory-fresh eeprom reads as all 0xFF.
func NewMemFilled(capacity int, fill byte) *Mem {
	m := NewMem(capacity)
	for i := range m.buf {
		m.buf[i] = fill
	}
	return m
}

func (m *Mem) Capacity() int { return len(m.buf) }

func (m *Mem) Read(address, length int) ([]byte, error) {
	if err := checkRange("read", len(m.buf), address, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.buf[address:address+length])
	return out, nil
}

func (m *Mem) Write(address int, data []byte) error {
	if err := checkRange("write", len(m.buf), address, len(data)); err != nil {
		return err
	}
	copy(m.buf[address:], data)
	return nil
}

func (m *Mem) Ping() error { return nil }
