package window

import "testing"

func newTestWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{title: "Explorer", width: 1280, height: 720}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func TestWithSizeClampsToLimits(t *testing.T) {
	w := newTestWindow(WithSize(100, 5000))
	if w.width != MinWidth || w.height != MaxHeight {
		t.Fatalf("size = %dx%d, want %dx%d", w.width, w.height, MinWidth, MaxHeight)
	}

	w = newTestWindow(WithSize(0, -1))
	if w.width != 1280 || w.height != 720 {
		t.Fatalf("size = %dx%d, want the 1280x720 default", w.width, w.height)
	}
}

func TestWithTitleKeepsDefaultWhenEmpty(t *testing.T) {
	if w := newTestWindow(WithTitle("")); w.title != "Explorer" {
		t.Fatalf("title = %q", w.title)
	}
	if w := newTestWindow(WithTitle("Portfolio"), WithFullscreen(true)); w.title != "Portfolio" || !w.fullscreen {
		t.Fatalf("title = %q fullscreen = %v", w.title, w.fullscreen)
	}
}

func TestCursorDeltaStartsAtZero(t *testing.T) {
	w := newTestWindow()
	if dx, dy := w.cursorDelta(100, 50); dx != 0 || dy != 0 {
		t.Fatalf("first delta = (%v, %v), want zero", dx, dy)
	}
	if dx, dy := w.cursorDelta(110, 45); dx != 10 || dy != -5 {
		t.Fatalf("delta = (%v, %v), want (10, -5)", dx, dy)
	}
}
