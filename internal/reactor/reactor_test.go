// internal/reactor/reactor_test.go
package reactor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *Reactor {
	t.Helper()
	r := New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)
	return r
}

func TestSchedule_RunsInOrder(t *testing.T) {
	r := startLoop(t)

	var got []int
	for i := 1; i <= 5; i++ {
		i := i
		r.Schedule(func() { got = append(got, i) })
	}
	r.Call(func() {})

	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestTimer_Fires(t *testing.T) {
	r := startLoop(t)

	fired := make(chan struct{})
	r.Call(func() {
		h := r.RegisterTimer(func() { close(fired) })
		h.Reschedule(5 * time.Millisecond)
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestTimer_CancelSuppressesQueuedFire(t *testing.T) {
	r := startLoop(t)

	var fired bool
	var h TimerHandle
	r.Call(func() {
		h = r.RegisterTimer(func() { fired = true })
		h.Reschedule(time.Millisecond)
	})

	// Give the underlying timer time to queue its fire, then cancel
	// on the loop before draining. The queued fire must be a no-op.
	time.Sleep(20 * time.Millisecond)
	r.Call(func() { h.Cancel() })
	r.Call(func() {})

	r.Call(func() { require.False(t, fired) })
}

func TestTimer_RescheduleRearms(t *testing.T) {
	r := startLoop(t)

	fires := make(chan struct{}, 2)
	var h TimerHandle
	r.Call(func() {
		h = r.RegisterTimer(func() {
			fires <- struct{}{}
			h.Reschedule(time.Millisecond)
		})
		h.Reschedule(time.Millisecond)
	})

	for i := 0; i < 2; i++ {
		select {
		case <-fires:
		case <-time.After(time.Second):
			t.Fatalf("fire %d never happened", i+1)
		}
	}
}
