// internal/device/file.go
package device

import (
	"fmt"
	"os"
)

// File is a device image stored in a regular file. Useful for
// preparing and inspecting memory images offline.
type File struct {
	f        *os.File
	capacity int
}

// CreateFile creates a new image of the given capacity. Every byte is
// set to 0xFF, matching a factory-fresh eeprom.
func CreateFile(path string, capacity int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("device: create image: %w", err)
	}

	blank := make([]byte, capacity)
	for i := range blank {
		blank[i] = 0xFF
	}
	if _, err := f.WriteAt(blank, 0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("device: blank image: %w", err)
	}

	return &File{f: f, capacity: capacity}, nil
}

// OpenFile opens an existing image; its size is the device capacity.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("device: open image: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("device: stat image: %w", err)
	}
	return &File{f: f, capacity: int(st.Size())}, nil
}

func (d *File) Capacity() int { return d.capacity }

func (d *File) Read(address, length int) ([]byte, error) {
	if err := checkRange("read", d.capacity, address, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	if _, err := d.f.ReadAt(out, int64(address)); err != nil {
		return nil, fmt.Errorf("device: read image: %w", err)
	}
	return out, nil
}

func (d *File) Write(address int, data []byte) error {
	if err := checkRange("write", d.capacity, address, len(data)); err != nil {
		return err
	}
	if _, err := d.f.WriteAt(data, int64(address)); err != nil {
		return fmt.Errorf("device: write image: %w", err)
	}
	if err := d.f.Sync(); err != nil {
		return fmt.Errorf("device: sync image: %w", err)
	}
	return nil
}

func (d *File) Ping() error {
	_, err := d.f.Stat()
	return err
}

func (d *File) Close() error { return d.f.Close() }
