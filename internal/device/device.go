// internal/device/device.go

// Package device implements byte-addressable tool memory backends.
// All backends expose the same contract: a fixed capacity and
// whole-or-nothing reads and writes at absolute addresses.
package device

import "fmt"

// Device is the storage contract the memory controller drives.
type Device interface {
	// Capacity is the device size in bytes.
	Capacity() int
	// Read returns length bytes starting at address.
	Read(address, length int) ([]byte, error)
	// Write stores data starting at address. A write either fully
	// applies or returns an error; no partial-write semantics.
	Write(address int, data []byte) error
}

// Pinger is implemented by backends that can cheaply check whether the
// physical device is still reachable.
type Pinger interface {
	Ping() error
}

func checkRange(op string, capacity, address, length int) error {
	if address < 0 || length < 0 || address+length > capacity {
		return fmt.Errorf("device: %s out of range: address=%d length=%d capacity=%d",
			op, address, length, capacity)
	}
	return nil
}
