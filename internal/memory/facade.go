// internal/memory/facade.go
package memory

import (
	"fmt"

	"github.com/Wazzup77/kalico/internal/record"
)

// Record accessors. Every accessor fails with ErrNotConnected while
// the controller is disconnected; none of them touch the device.
// Persistence is exclusively the autosave timer's (or Save's) job.

// Has reports whether key exists in the current record.
func (c *Controller) Has(key string) (bool, error) {
	if !c.connected {
		return false, ErrNotConnected
	}
	return c.rec.Has(key), nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (c *Controller) Get(key string) (record.Value, error) {
	if !c.connected {
		return record.Nil(), ErrNotConnected
	}
	v, ok := c.rec.Get(key)
	if !ok {
		return record.Nil(), fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return v, nil
}

// GetDefault returns the value stored under key, or def when the key
// is absent. A missing key is never an error here.
func (c *Controller) GetDefault(key string, def record.Value) (record.Value, error) {
	if !c.connected {
		return record.Nil(), ErrNotConnected
	}
	if v, ok := c.rec.Get(key); ok {
		return v, nil
	}
	return def, nil
}

// Set stores val under key.
func (c *Controller) Set(key string, val record.Value) error {
	if !c.connected {
		return ErrNotConnected
	}
	c.rec.Set(key, val)
	return nil
}

// SetDefault stores def under key only if absent and returns the value
// now present.
func (c *Controller) SetDefault(key string, def record.Value) (record.Value, error) {
	if !c.connected {
		return record.Nil(), ErrNotConnected
	}
	return c.rec.SetDefault(key, def), nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Controller) Delete(key string) error {
	if !c.connected {
		return ErrNotConnected
	}
	c.rec.Delete(key)
	return nil
}
