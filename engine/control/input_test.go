package control

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-explorer/common"
)

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func TestKeyboardMovementNormalizesDiagonals(t *testing.T) {
	k := NewKeyboard()
	k.Press(common.KeyW)
	k.Press(common.KeyD)

	m := k.Movement()
	if !near(m.Len(), 1, 1e-6) {
		t.Fatalf("diagonal length = %v, want 1", m.Len())
	}
	if m.X <= 0 || m.Y >= 0 {
		t.Fatalf("movement = %+v, want forward-right", m)
	}

	k.Press(common.KeyS)
	m = k.Movement()
	if m.Y != 0 || m.X != 1 {
		t.Fatalf("opposite keys should cancel, got %+v", m)
	}
}

func TestKeyboardIgnoresUnrelatedKeys(t *testing.T) {
	k := NewKeyboard()
	if k.Press(common.KeyT) {
		t.Fatalf("T should not be tracked")
	}
	if k.MovementActive() || k.LookActive() {
		t.Fatalf("no source should be active")
	}
}

func TestArrowLookAcceleratesAndStopsOnRelease(t *testing.T) {
	k := NewKeyboard()
	k.Press(common.KeyUp)

	v := k.StepLook(1)
	want := float32(-LookAcceleration * LookDeceleration)
	if !near(v.Y, want, 1e-6) {
		t.Fatalf("first frame look.y = %v, want %v", v.Y, want)
	}

	for i := 0; i < 600; i++ {
		v = k.StepLook(1)
	}
	if v.Y < -MaxLookVelocity || v.Y >= 0 {
		t.Fatalf("look.y = %v outside (-%v, 0)", v.Y, MaxLookVelocity)
	}

	k.Release(common.KeyUp)
	if !k.LookVelocity().IsZero() {
		t.Fatalf("look velocity should be zero after releasing all arrows, got %+v", k.LookVelocity())
	}
}

func TestJoystickClampsAndDamps(t *testing.T) {
	j := NewJoystick(20, 0.15)
	j.Begin(Point{X: 100, Y: 100})

	out := j.Drag(Point{X: 100, Y: 200})
	if !near(out.Y, 0.15, 1e-6) || out.X != 0 {
		t.Fatalf("clamped output = %+v, want (0, 0.15)", out)
	}
	if !near(j.State().Offset.Len(), 20, 1e-4) {
		t.Fatalf("offset length = %v, want 20", j.State().Offset.Len())
	}

	out = j.Drag(Point{X: 110, Y: 100})
	if !near(out.X, 0.075, 1e-6) {
		t.Fatalf("half deflection output = %+v, want x=0.075", out)
	}

	j.End()
	if j.Active() || !j.Output().IsZero() {
		t.Fatalf("joystick should be idle after release")
	}
}

func TestMixerCoexistingSources(t *testing.T) {
	keys := NewKeyboard()
	move := NewJoystick(20, 1)
	look := NewJoystick(20, 0.15)
	m := NewMixer(keys, move, look)

	keys.Press(common.KeyW)
	move.Begin(Point{})
	move.Drag(Point{Y: -10})

	keys.Release(common.KeyW)
	got := m.Movement()
	if !near(got.Y, -0.5, 1e-6) {
		t.Fatalf("releasing W with joystick active: movement = %+v, want y=-0.5", got)
	}

	keys.Press(common.KeyW)
	move.End()
	got = m.Movement()
	if got.Y != -1 {
		t.Fatalf("releasing joystick with W held: movement = %+v, want y=-1", got)
	}

	keys.Release(common.KeyW)
	if !m.Movement().IsZero() {
		t.Fatalf("all sources idle: movement = %+v, want zero", m.Movement())
	}
}

func TestMixerLookPrefersJoystick(t *testing.T) {
	keys := NewKeyboard()
	move := NewJoystick(20, 1)
	look := NewJoystick(20, 0.15)
	m := NewMixer(keys, move, look)

	keys.Press(common.KeyLeft)
	look.Begin(Point{})
	look.Drag(Point{X: 20})

	got := m.StepLook(1)
	if !near(got.X, 0.15, 1e-6) {
		t.Fatalf("look = %+v, want joystick output x=0.15", got)
	}

	look.End()
	got = m.StepLook(1)
	if got.X >= 0 {
		t.Fatalf("look = %+v, want keyboard driven negative x", got)
	}
}
