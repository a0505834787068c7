// internal/memory/status.go
package memory

import (
	"time"

	"github.com/Wazzup77/kalico/internal/record"
)

// Status is a point-in-time snapshot of the controller for reporting.
// It contains no logic and shares no mutable state with the controller.
type Status struct {
	Connected bool
	// UID is the device identity, empty while disconnected.
	UID string
	// Timestamp is the last successful save time, zero while
	// disconnected.
	Timestamp time.Time
	// Record is a copy of the current record, nil while disconnected.
	Record *record.Record
	// ChangesPending reports unsaved changes.
	ChangesPending bool
}

// Status captures the controller's current state.
func (c *Controller) Status() Status {
	s := Status{
		Connected:      c.connected,
		ChangesPending: c.HasChanges(),
	}
	if c.hasHeader {
		s.UID = c.header.UID.String()
		s.Timestamp = c.header.Time()
	}
	if c.rec != nil {
		s.Record = c.rec.Clone()
	}
	return s
}
