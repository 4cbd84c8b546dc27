package profiler

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestReportsOncePerInterval(t *testing.T) {
	p := NewProfiler()
	var lines []string
	p.logf = func(format string, args ...any) { lines = append(lines, fmt.Sprintf(format, args...)) }
	start := p.lastTime

	for i := 1; i < 60; i++ {
		if _, ok := p.tick(start.Add(time.Duration(i) * 16 * time.Millisecond)); ok {
			t.Fatalf("unexpected report before the interval at tick %d", i)
		}
	}
	r, ok := p.tick(start.Add(time.Second))
	if !ok {
		t.Fatalf("expected a report after one second")
	}
	if r.FPS < 59.9 || r.FPS > 60.1 {
		t.Fatalf("expected 60 FPS, got %.2f", r.FPS)
	}
	if len(lines) != 1 || !strings.Contains(lines[0], "[Profiler] FPS: 60.00") {
		t.Fatalf("unexpected log output %q", lines)
	}
	if p.frameCount != 0 {
		t.Fatalf("expected the frame counter to reset")
	}
}

func TestSlowReportsAreFlagged(t *testing.T) {
	p := NewProfiler()
	p.logf = func(string, ...any) {}
	p.SetTarget(time.Second / 60)
	start := p.lastTime

	for i := 1; i < 30; i++ {
		p.tick(start.Add(time.Duration(i) * 33 * time.Millisecond))
	}
	r, ok := p.tick(start.Add(time.Second))
	if !ok || !r.Slow {
		t.Fatalf("expected a slow report at 30 FPS against a 60 Hz target, got %+v", r)
	}

	p.SetTarget(0)
	for i := 1; i < 30; i++ {
		p.tick(start.Add(time.Second + time.Duration(i)*33*time.Millisecond))
	}
	r, ok = p.tick(start.Add(2 * time.Second))
	if !ok || r.Slow {
		t.Fatalf("expected no slow flag without a target, got %+v", r)
	}
}
