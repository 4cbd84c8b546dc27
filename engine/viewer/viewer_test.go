package viewer

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-explorer/common"
	"github.com/Carmen-Shannon/oxy-explorer/config"
	"github.com/Carmen-Shannon/oxy-explorer/engine/control"
	"github.com/Carmen-Shannon/oxy-explorer/engine/scene"
	"github.com/Carmen-Shannon/oxy-explorer/engine/texture"
	"github.com/Carmen-Shannon/oxy-explorer/engine/window"
)

type fakePointer struct {
	mu      sync.Mutex
	locked  bool
	locks   int
	unlocks int
}

func (p *fakePointer) LockPointer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked = true
	p.locks++
}

func (p *fakePointer) UnlockPointer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked = false
	p.unlocks++
}

func (p *fakePointer) isLocked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locked
}

func newTestViewer(t *testing.T, cfg config.ViewerConfig, options ...ViewerBuilderOption) Viewer {
	t.Helper()
	tex := &common.TextureStagingData{Pixels: make([]byte, 4*4*2), Width: 4, Height: 2}
	var preload []texture.LoaderBuilderOption
	for _, p := range cfg.Projects {
		if p.BackgroundImage != "" {
			preload = append(preload, texture.WithTexture(cfg.ImagePath(p.BackgroundImage), tex))
		}
	}
	loader := texture.NewLoader(preload...)
	options = append([]ViewerBuilderOption{WithTextureLoader(loader), WithSize(800, 600)}, options...)
	v := NewViewer(cfg, options...)
	t.Cleanup(v.Close)
	return v
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDesktopWalkAndStop(t *testing.T) {
	pointer := &fakePointer{}
	v := newTestViewer(t, config.Default(), WithPointerLock(pointer))
	pose := v.Camera().Controller()

	if v.Session().Mode() != control.ModeIdle {
		t.Fatalf("expected idle viewer")
	}
	if !strings.Contains(v.Title(), "Click to explore") {
		t.Fatalf("expected the explore hint, got %q", v.Title())
	}

	v.KeyDown(common.KeyEnter)
	if v.Session().Mode() != control.ModeLockedManual || !pointer.isLocked() {
		t.Fatalf("expected locked-manual with a captured pointer, got %v", v.Session().Mode())
	}
	if !strings.Contains(v.Title(), "Exit View") {
		t.Fatalf("expected the exit hint, got %q", v.Title())
	}

	v.KeyDown(common.KeyW)
	for i := 0; i < 60; i++ {
		v.Frame(1.0 / 60)
	}
	x, y, z := pose.Position()
	if math.Abs(float64(z-1)) > 1e-3 || x != 0 || y != 1.7 {
		t.Fatalf("expected 9 units forward at eye height, got (%v, %v, %v)", x, y, z)
	}

	v.MouseMove(0, 0, 100, 0)
	if yaw := pose.Yaw(); math.Abs(float64(yaw+0.2)) > 1e-5 {
		t.Fatalf("expected the mouse to turn the camera, yaw %v", yaw)
	}
	v.MouseMove(0, 0, 0, -10000)
	if pitch := pose.Pitch(); pitch != pose.MaxPitch() {
		t.Fatalf("expected pitch clamped to %v, got %v", pose.MaxPitch(), pitch)
	}

	v.KeyDown(common.KeyEsc)
	if v.Session().IsLocked() || pointer.isLocked() {
		t.Fatalf("expected Escape to stop exploring and release the pointer")
	}
	if pose.Yaw() != 0 || pose.Pitch() != 0 {
		t.Fatalf("expected identity rotation after stopping, got yaw %v pitch %v", pose.Yaw(), pose.Pitch())
	}
	if v.Session().Movement() != (control.Vector2{}) {
		t.Fatalf("expected zero movement after stopping")
	}
}

func TestClickStartsAndFocusLossStops(t *testing.T) {
	pointer := &fakePointer{}
	v := newTestViewer(t, config.Default(), WithPointerLock(pointer))

	v.MouseDown(window.MouseButtonRight, 10, 10)
	if v.Session().IsLocked() {
		t.Fatalf("expected only the left button to start exploring")
	}
	v.MouseDown(window.MouseButtonLeft, 10, 10)
	if !v.Session().IsLocked() {
		t.Fatalf("expected a left click to start exploring")
	}

	v.FocusChanged(true)
	if !v.Session().IsLocked() {
		t.Fatalf("expected focus gain to keep exploring")
	}
	v.FocusChanged(false)
	if v.Session().IsLocked() {
		t.Fatalf("expected focus loss to stop exploring")
	}
}

func TestNumberKeysNavigate(t *testing.T) {
	cfg := config.Default()
	pointer := &fakePointer{}
	v := newTestViewer(t, cfg, WithPointerLock(pointer))

	if v.Scene().Kind() != scene.KindRoom || v.Route() != "/" {
		t.Fatalf("expected the room at /, got %v at %s", v.Scene().Kind(), v.Route())
	}

	v.KeyDown(common.KeyEnter)
	v.KeyDown(common.Key1)
	if v.Route() != cfg.Projects[0].Route() {
		t.Fatalf("expected route %s, got %s", cfg.Projects[0].Route(), v.Route())
	}
	if v.Session().IsLocked() {
		t.Fatalf("expected navigation to stop exploring")
	}
	pano, ok := v.Scene().(scene.PanoramaScene)
	if !ok {
		t.Fatalf("expected a panorama, got %v", v.Scene().Kind())
	}
	if !strings.Contains(v.Title(), cfg.Projects[0].Title.EN) {
		t.Fatalf("expected the project title, got %q", v.Title())
	}

	waitFor(t, "panorama texture", func() bool {
		v.Frame(1.0 / 60)
		return pano.Loaded()
	})

	x, y, z := v.Camera().Controller().Position()
	m := pano.ModelMatrix()
	if m[12] != x || m[13] != y || m[14] != z {
		t.Fatalf("expected the panorama centered on the camera, got %v", m[12:15])
	}

	v.KeyDown(common.Key9)
	if v.Route() != cfg.Projects[0].Route() {
		t.Fatalf("expected a key without a project to be ignored, got %s", v.Route())
	}

	v.KeyDown(common.Key0)
	if v.Route() != "/" || v.Scene().Kind() != scene.KindRoom {
		t.Fatalf("expected the room at /, got %v at %s", v.Scene().Kind(), v.Route())
	}
}

func TestTouchEmulationJoysticks(t *testing.T) {
	var notices []string
	var mu sync.Mutex
	v := newTestViewer(t, config.Default(), WithTouchEmulation(true), WithNotifier(func(msg string) {
		mu.Lock()
		notices = append(notices, msg)
		mu.Unlock()
	}))

	if !v.Session().IsMobileDevice() {
		t.Fatalf("expected touch emulation to report a touch device")
	}
	if !strings.Contains(v.Title(), "Tap to explore") {
		t.Fatalf("expected the tap hint, got %q", v.Title())
	}

	v.MouseDown(window.MouseButtonLeft, 400, 100)
	var got []string
	waitFor(t, "enabled notice", func() bool {
		mu.Lock()
		defer mu.Unlock()
		got = append([]string(nil), notices...)
		return len(got) > 0
	})
	v.MouseUp(window.MouseButtonLeft, 400, 100)
	if !v.Session().IsSensorModeActive() {
		t.Fatalf("expected sensor mode before the enabled notice")
	}
	if len(got) != 1 || !strings.Contains(got[0], "Device orientation enabled") {
		t.Fatalf("expected the enabled notice, got %q", got)
	}
	v.Frame(1.0 / 60)
	if !strings.Contains(v.Title(), "Device orientation enabled") {
		t.Fatalf("expected the notice in the title, got %q", v.Title())
	}
	v.Frame(5)
	if strings.Contains(v.Title(), "Device orientation enabled") {
		t.Fatalf("expected the notice to expire, got %q", v.Title())
	}

	// Bottom-left drives movement.
	v.MouseDown(window.MouseButtonLeft, 100, 500)
	v.MouseMove(100, 480, 0, -20)
	if m := v.Session().Movement(); m.Y >= 0 || m.X != 0 {
		t.Fatalf("expected forward movement from the left joystick, got %+v", m)
	}
	v.MouseUp(window.MouseButtonLeft, 100, 480)
	if m := v.Session().Movement(); !m.IsZero() {
		t.Fatalf("expected zero movement after release, got %+v", m)
	}

	// Top half has no joystick.
	v.MouseDown(window.MouseButtonLeft, 100, 100)
	if v.Session().Joystick(control.StickMove).Active || v.Session().Joystick(control.StickLook).Active {
		t.Fatalf("expected no joystick in the top half")
	}
	v.MouseUp(window.MouseButtonLeft, 100, 100)

	// Bottom-right grabs the look stick.
	v.MouseDown(window.MouseButtonLeft, 700, 500)
	if !v.Session().Joystick(control.StickLook).Active {
		t.Fatalf("expected the look joystick to be grabbed")
	}
	v.KeyDown(common.KeyEsc)
	if v.Session().Joystick(control.StickLook).Active {
		t.Fatalf("expected stopping to release the joystick")
	}
}

func TestSpanishTitle(t *testing.T) {
	cfg := config.Default()
	cfg.Language = config.LangES
	v := newTestViewer(t, cfg, WithPointerLock(&fakePointer{}))
	if !strings.Contains(v.Title(), "Haz clic para explorar") {
		t.Fatalf("expected a Spanish hint, got %q", v.Title())
	}
	v.Navigate("projects/" + cfg.Projects[1].ID)
	if !strings.Contains(v.Title(), cfg.Projects[1].Title.ES) {
		t.Fatalf("expected the Spanish project title, got %q", v.Title())
	}
}

func TestResizeUpdatesAspect(t *testing.T) {
	v := newTestViewer(t, config.Default(), WithPointerLock(&fakePointer{}))
	if a := v.Camera().Aspect(); math.Abs(float64(a-800.0/600.0)) > 1e-6 {
		t.Fatalf("expected the initial aspect from the size, got %v", a)
	}
	v.Resize(1000, 500)
	if a := v.Camera().Aspect(); a != 2 {
		t.Fatalf("expected aspect 2, got %v", a)
	}
	v.Resize(0, 0)
	if a := v.Camera().Aspect(); a != 2 {
		t.Fatalf("expected a minimized window to keep aspect 2, got %v", a)
	}
	if p := v.Camera().ProjectionMatrix(); math.IsNaN(float64(p[0])) || math.IsInf(float64(p[0]), 0) {
		t.Fatalf("expected a finite projection, got %v", p[0])
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	pointer := &fakePointer{}
	v := NewViewer(config.Default(), WithPointerLock(pointer), WithSize(800, 600),
		WithTextureLoader(texture.NewLoader()))
	v.KeyDown(common.KeyEnter)
	v.Close()
	v.Close()
	if pointer.isLocked() {
		t.Fatalf("expected Close to release the pointer")
	}
	if v.Session().IsLocked() {
		t.Fatalf("expected Close to stop exploring")
	}
}
