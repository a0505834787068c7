// internal/reactor/reactor.go

// Package reactor provides the single-threaded cooperative scheduler
// everything tool-memory related runs on. All callbacks execute on one
// goroutine in submission order, so code confined to the loop needs no
// locking. Callbacks must not block for long; small bounded device I/O
// is fine.
package reactor

import (
	"context"
	"time"
)

// TimerHandle is a re-armable one-shot timer owned by a loop callback.
// Reschedule and Cancel must be called from the loop.
type TimerHandle interface {
	// Reschedule arms (or re-arms) the timer to fire after d.
	Reschedule(d time.Duration)
	// Cancel disarms the timer. A cancelled timer can be re-armed
	// with Reschedule.
	Cancel()
}

// Reactor runs scheduled callbacks on a single goroutine.
type Reactor struct {
	queue chan func()
}

func New() *Reactor {
	return &Reactor{queue: make(chan func(), 64)}
}

// Run executes callbacks until ctx is cancelled. It must be called
// exactly once and is the only goroutine callbacks run on.
func (r *Reactor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-r.queue:
			fn()
		}
	}
}

// Schedule enqueues fn to run on the next loop turn. Safe to call from
// any goroutine.
func (r *Reactor) Schedule(fn func()) {
	r.queue <- fn
}

// Call runs fn on the loop and waits for it to finish. It must not be
// called from a loop callback; that would deadlock.
func (r *Reactor) Call(fn func()) {
	done := make(chan struct{})
	r.Schedule(func() {
		defer close(done)
		fn()
	})
	<-done
}

// RegisterTimer creates a disarmed timer whose callback is dispatched
// through the loop queue like any other callback.
func (r *Reactor) RegisterTimer(fn func()) TimerHandle {
	return &timer{r: r, fn: fn}
}

type timer struct {
	r  *Reactor
	fn func()

	t      *time.Timer
	active bool
	// gen invalidates fires that were already queued when the timer
	// was cancelled or re-armed.
	gen uint64
}

func (t *timer) Reschedule(d time.Duration) {
	if t.t != nil {
		t.t.Stop()
	}
	t.gen++
	t.active = true
	g := t.gen
	t.t = time.AfterFunc(d, func() {
		t.r.Schedule(func() { t.fire(g) })
	})
}

func (t *timer) Cancel() {
	t.gen++
	t.active = false
	if t.t != nil {
		t.t.Stop()
	}
}

func (t *timer) fire(gen uint64) {
	if !t.active || gen != t.gen {
		return
	}
	t.active = false
	t.fn()
}
