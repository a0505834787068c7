// internal/probe/probe.go

// Package probe detects tool attachment. It is a dumb, clock-driven
// checker: it pings the device every interval and raises edge-triggered
// attach/detach callbacks. No retries, no debouncing beyond the
// interval itself.
package probe

import (
	"context"
	"errors"
	"time"
)

// Pinger is the reachability check a device backend exposes.
type Pinger interface {
	Ping() error
}

// Config is the minimal runtime config the prober needs.
type Config struct {
	Interval time.Duration
	OnAttach func()
	OnDetach func()
}

// Prober polls a Pinger and reports presence edges.
type Prober struct {
	cfg      Config
	dev      Pinger
	attached bool
}

// New creates a prober with immutable config.
func New(dev Pinger, cfg Config) (*Prober, error) {
	if dev == nil {
		return nil, errors.New("probe: device required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("probe: interval must be > 0")
	}
	if cfg.OnAttach == nil || cfg.OnDetach == nil {
		return nil, errors.New("probe: attach and detach callbacks required")
	}
	return &Prober{cfg: cfg, dev: dev}, nil
}

// Run starts the ticker loop. One goroutine per tool slot; callbacks
// are invoked from it, so they should only hand off (e.g. schedule
// onto the reactor), never block.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check()
		}
	}
}

// Check performs exactly one presence check and fires a callback on an
// edge. Exposed for tests and one-shot use.
func (p *Prober) Check() {
	present := p.dev.Ping() == nil
	if present == p.attached {
		return
	}
	p.attached = present
	if present {
		p.cfg.OnAttach()
	} else {
		p.cfg.OnDetach()
	}
}
