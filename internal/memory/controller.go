// internal/memory/controller.go

// Package memory owns the on-tool memory lifecycle: reacting to
// attach/detach signals, validating and loading the stored record,
// tracking unsaved changes and writing them back periodically.
//
// A Controller is confined to the scheduler it is built with. Attach
// and detach handlers may be invoked from any goroutine; everything
// else runs as scheduler callbacks and needs no locking.
package memory

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Wazzup77/kalico/internal/header"
	"github.com/Wazzup77/kalico/internal/names"
	"github.com/Wazzup77/kalico/internal/reactor"
	"github.com/Wazzup77/kalico/internal/record"
)

// AutosaveInterval is the default dirty-gated write-back period.
const AutosaveInterval = time.Second

var (
	// ErrNotConnected is returned by every record accessor while no
	// tool memory is logically connected.
	ErrNotConnected = errors.New("tool memory not connected")

	// ErrKeyNotFound is returned by Get for a missing key when no
	// default is supplied.
	ErrKeyNotFound = errors.New("no such key in tool memory")
)

// Device is the byte-addressable storage the controller drives. The
// concrete backends live in internal/device.
type Device interface {
	Capacity() int
	Read(address, length int) ([]byte, error)
	Write(address int, data []byte) error
}

// Scheduler is the injected scheduling capability. The controller
// schedules its attach processing on it and owns exactly one timer.
type Scheduler interface {
	Schedule(fn func())
	RegisterTimer(fn func()) reactor.TimerHandle
}

// ReadyFunc observes the end of an attach attempt. connected reports
// whether the memory is usable; rec is the loaded (possibly freshly
// initialized) record, nil when not connected.
type ReadyFunc func(connected bool, rec *record.Record)

// Config carries controller construction options.
type Config struct {
	// Name identifies the tool slot in logs.
	Name string
	// AutosaveInterval overrides the default write-back period.
	AutosaveInterval time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Controller is the attach/detach/save state machine for one tool
// memory. Exactly one controller owns a device.
type Controller struct {
	name     string
	log      *slog.Logger
	dev      Device
	sched    Scheduler
	timer    reactor.TimerHandle
	interval time.Duration

	connected bool
	header    header.Header
	hasHeader bool
	rec       *record.Record

	// Last-persisted snapshot, used for dirty comparison and for the
	// unchanged-data shortcut on re-attach. Deliberately retained
	// across detach.
	lastHeader header.Header
	hasLast    bool
	lastRec    *record.Record

	onReady []ReadyFunc
}

// New builds a controller over dev. It performs no device I/O; nothing
// happens until an attach signal arrives.
func New(dev Device, sched Scheduler, cfg Config) *Controller {
	name := cfg.Name
	if name == "" {
		name = "tool0"
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	interval := cfg.AutosaveInterval
	if interval <= 0 {
		interval = AutosaveInterval
	}

	c := &Controller{
		name:     name,
		log:      log.With("tool", name),
		dev:      dev,
		sched:    sched,
		interval: interval,
	}
	c.timer = sched.RegisterTimer(c.autosave)
	return c
}

// OnReady registers an observer for attach-attempt completion. Must be
// called before the first attach signal.
func (c *Controller) OnReady(fn ReadyFunc) {
	c.onReady = append(c.onReady, fn)
}

// HandleAttach processes an external "attached" signal. The device
// read and validation run on the next scheduler turn, never inside the
// signal handler itself. Safe to call from any goroutine.
func (c *Controller) HandleAttach() {
	c.sched.Schedule(c.attached)
}

// HandleDetach processes an external "detached" signal. Safe to call
// from any goroutine.
func (c *Controller) HandleDetach() {
	c.sched.Schedule(c.detached)
}

// attached is the read-and-validate step.
func (c *Controller) attached() {
	raw, err := c.dev.Read(0, header.Size)
	if err != nil {
		// Device trouble, not a format problem. No retry; the next
		// attach signal is the only recovery path.
		c.connected = false
		c.rec = nil
		c.log.Error("unable to read tool memory", "err", err)
		c.notifyReady()
		return
	}

	c.connected = true

	h, err := header.Decode(raw)
	if err != nil {
		// Any format error means the device has never been
		// initialized (or lost its header); self-heal with a fresh
		// identity.
		c.log.Debug("initializing tool memory", "reason", err)
		if !c.initialize(header.New()) {
			return
		}
	} else if !c.load(h) {
		return
	}

	c.timer.Reschedule(c.interval)

	display := c.header.UID.String()
	if v, ok := c.rec.Get("name"); ok {
		if s, ok := v.Text(); ok {
			display = s
		}
	}
	c.log.Info("tool memory attached", "name", display)
	c.notifyReady()
}

// load adopts a decoded header and brings the cached record in line
// with the device. Returns false if the attempt ended in a device
// error.
func (c *Controller) load(h header.Header) bool {
	c.header = h
	c.hasHeader = true

	if h.DataLength == 0 {
		// Initialized but empty.
		c.rec = record.New()
		return true
	}

	if c.hasLast && h.SameContent(c.lastHeader) && c.lastRec != nil {
		c.log.Debug("record unchanged since last attachment")
		c.rec = c.lastRec.Clone()
		return true
	}

	payload, err := c.dev.Read(h.PayloadAddress(), int(h.DataLength))
	if err != nil {
		c.connected = false
		c.rec = nil
		c.log.Error("unable to read tool record", "err", err)
		c.notifyReady()
		return false
	}

	if sum := header.Checksum(payload); sum != h.DataChecksum {
		// Header is valid but the payload it points at is not. Never
		// adopt an unvalidated record; keep the device's identity and
		// start the record over.
		c.log.Warn("tool record corrupt, reinitializing",
			"want", fmt.Sprintf("%04x", h.DataChecksum),
			"got", fmt.Sprintf("%04x", sum))
		return c.initialize(h)
	}

	rec, err := record.Unmarshal(payload)
	if err != nil {
		c.log.Warn("tool record undecodable, reinitializing", "err", err)
		return c.initialize(h)
	}

	c.lastHeader = h
	c.hasLast = true
	c.lastRec = rec
	c.rec = rec.Clone()
	return true
}

// initialize resets the record to a named default under the given
// header identity and persists it immediately. Returns false if the
// save failed at the device.
func (c *Controller) initialize(h header.Header) bool {
	c.header = h
	c.hasHeader = true
	c.lastHeader = h
	c.hasLast = true
	c.lastRec = nil

	c.rec = record.New()
	c.rec.Set("name", record.String(names.Generate()))

	if err := c.save(); err != nil {
		c.connected = false
		c.rec = nil
		c.log.Error("unable to initialize tool memory", "err", err)
		c.notifyReady()
		return false
	}
	return true
}

func (c *Controller) detached() {
	c.timer.Cancel()
	c.connected = false
	c.hasHeader = false
	c.header = header.Header{}
	c.rec = nil
	c.log.Info("tool memory detached")
}

// autosave runs on the controller's timer: write back if dirty, then
// re-arm regardless of outcome so writes stay bounded to one per
// interval.
func (c *Controller) autosave() {
	if !c.connected {
		return
	}
	if c.HasChanges() {
		if err := c.save(); err != nil {
			c.log.Error("autosave failed", "err", err)
		}
	}
	c.timer.Reschedule(c.interval)
}

// HasChanges reports whether the current record differs from the
// last-persisted snapshot.
func (c *Controller) HasChanges() bool {
	return c.connected && !c.rec.Equal(c.lastRec)
}

// Save persists the current record immediately.
func (c *Controller) Save() error {
	if !c.connected {
		return ErrNotConnected
	}
	return c.save()
}

// save writes the payload first and the header second. The header is
// the commit record: a device that still decodes valid-by-checksum
// always points at a payload that is fully present, so an interrupted
// payload write leaves the old header over the old payload.
func (c *Controller) save() error {
	payload, err := c.rec.Marshal()
	if err != nil {
		return err
	}
	if len(payload) > math.MaxUint16 {
		// DataLength is 16 bits; letting WithPayload truncate it would
		// persist a header pointing at a prefix of the payload.
		return fmt.Errorf("record too large: %d bytes exceeds the %d byte format limit",
			len(payload), math.MaxUint16)
	}

	next := c.header.WithPayload(payload)

	addr := next.PayloadAddress()
	if addr+len(payload) > c.dev.Capacity() {
		return fmt.Errorf("record too large: %d bytes at %d exceeds capacity %d",
			len(payload), addr, c.dev.Capacity())
	}

	if err := c.dev.Write(addr, payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	if err := c.dev.Write(0, next.Encode()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	c.header = next
	c.lastHeader = next
	c.hasLast = true
	c.lastRec = c.rec.Clone()
	c.log.Debug("tool memory saved", "bytes", len(payload))
	return nil
}

func (c *Controller) notifyReady() {
	for _, fn := range c.onReady {
		fn(c.connected, c.rec)
	}
}
