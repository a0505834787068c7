// internal/probe/probe_test.go
package probe

import (
	"errors"
	"testing"
	"time"
)

type fakePinger struct {
	present bool
}

func (f *fakePinger) Ping() error {
	if f.present {
		return nil
	}
	return errors.New("no response")
}

func newProber(t *testing.T, dev *fakePinger) (*Prober, *int, *int) {
	t.Helper()
	attaches, detaches := 0, 0
	p, err := New(dev, Config{
		Interval: time.Second,
		OnAttach: func() { attaches++ },
		OnDetach: func() { detaches++ },
	})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return p, &attaches, &detaches
}

func TestCheck_EdgesOnly(t *testing.T) {
	dev := &fakePinger{}
	p, attaches, detaches := newProber(t, dev)

	// Absent from the start: no edge.
	p.Check()
	p.Check()
	if *attaches != 0 || *detaches != 0 {
		t.Fatalf("expected no edges, got attaches=%d detaches=%d", *attaches, *detaches)
	}

	dev.present = true
	p.Check()
	p.Check()
	if *attaches != 1 {
		t.Fatalf("expected 1 attach, got %d", *attaches)
	}

	dev.present = false
	p.Check()
	if *detaches != 1 {
		t.Fatalf("expected 1 detach, got %d", *detaches)
	}

	dev.present = true
	p.Check()
	if *attaches != 2 {
		t.Fatalf("expected 2 attaches, got %d", *attaches)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, Config{Interval: time.Second, OnAttach: func() {}, OnDetach: func() {}}); err == nil {
		t.Fatalf("expected error for nil device")
	}
	if _, err := New(&fakePinger{}, Config{OnAttach: func() {}, OnDetach: func() {}}); err == nil {
		t.Fatalf("expected error for zero interval")
	}
	if _, err := New(&fakePinger{}, Config{Interval: time.Second}); err == nil {
		t.Fatalf("expected error for missing callbacks")
	}
}
