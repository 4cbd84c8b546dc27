package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestHeadlessRunTicksUntilQuit(t *testing.T) {
	var ticks int32
	var badDt int32
	e := NewEngine(WithTickRate(200), WithTickCallback(func(dt float32) {
		if dt <= 0 || dt > 1 {
			atomic.StoreInt32(&badDt, 1)
		}
		atomic.AddInt32(&ticks, 1)
	}))
	if e.Window() != nil {
		t.Fatalf("expected a headless engine")
	}

	finished := make(chan struct{})
	go func() {
		e.Run()
		close(finished)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&ticks) < 5 {
		if time.Now().After(deadline) {
			t.Fatalf("expected ticks, got %d", atomic.LoadInt32(&ticks))
		}
		time.Sleep(5 * time.Millisecond)
	}

	e.Quit()
	e.Quit()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Quit")
	}
	select {
	case <-e.Done():
	default:
		t.Fatalf("expected Done to be closed")
	}
	if atomic.LoadInt32(&badDt) != 0 {
		t.Fatalf("tick delta out of range")
	}
}

func TestPanicInTickQuits(t *testing.T) {
	e := NewEngine(WithTickRate(500), WithTickCallback(func(float32) {
		panic("boom")
	}))
	finished := make(chan struct{})
	go func() {
		e.Run()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after a panicking tick")
	}
}

func TestSetTickRateWhileRunning(t *testing.T) {
	var ticks int32
	e := NewEngine(WithTickRate(1))
	e.SetTickCallback(func(float32) { atomic.AddInt32(&ticks, 1) })
	go e.Run()
	defer e.Quit()

	time.Sleep(20 * time.Millisecond)
	e.SetTickRate(500)

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&ticks) < 10 {
		if time.Now().After(deadline) {
			t.Fatalf("tick rate change not applied, got %d ticks", atomic.LoadInt32(&ticks))
		}
		time.Sleep(5 * time.Millisecond)
	}
}
