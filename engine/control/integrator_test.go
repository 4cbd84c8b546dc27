package control

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
)

func TestIntegratorOneSecondForward(t *testing.T) {
	for _, fps := range []int{60, 30, 144} {
		pose := camera.NewCameraController(camera.WithPosition(0, 10))
		in := NewIntegrator(DefaultMoveSpeed)
		dt := float32(1) / float32(fps)

		for i := 0; i < fps; i++ {
			in.Step(pose, Vector2{Y: -1}, FrameScale(dt))
		}

		x, _, z := pose.Position()
		if !near(x, 0, 1e-4) || !near(10-z, 9, 1e-3) {
			t.Fatalf("%d fps: moved to (%v, %v), want 9 units forward", fps, x, z)
		}
	}
}

func TestIntegratorHeightInvariant(t *testing.T) {
	pose := camera.NewCameraController()
	in := NewIntegrator(DefaultMoveSpeed)
	pose.SetOrientation(0.7, pose.MaxPitch())

	inputs := []Vector2{{Y: -1}, {X: 1}, {X: -0.3, Y: 0.8}, {}}
	for i := 0; i < 200; i++ {
		if i%50 == 0 {
			pose.SetPosition(float32(i), 4, 0)
		}
		in.Step(pose, inputs[i%len(inputs)], 1)
		if _, y, _ := pose.Position(); y != pose.EyeHeight() {
			t.Fatalf("step %d: y = %v, want %v", i, y, pose.EyeHeight())
		}
	}
}

func TestIntegratorPitchDoesNotChangeSpeed(t *testing.T) {
	level := camera.NewCameraController()
	tilted := camera.NewCameraController()
	tilted.SetOrientation(0, tilted.MaxPitch())

	in := NewIntegrator(DefaultMoveSpeed)
	in.Step(level, Vector2{Y: -1}, 1)
	in.Step(tilted, Vector2{Y: -1}, 1)

	_, _, lz := level.Position()
	_, _, tz := tilted.Position()
	if !near(lz, tz, 1e-5) {
		t.Fatalf("level moved %v, tilted moved %v", lz, tz)
	}
}

func TestFrameScale(t *testing.T) {
	if FrameScale(-1) != 0 || FrameScale(0) != 0 {
		t.Fatalf("non-positive dt should give 0")
	}
	if !near(FrameScale(0.5), 30, 1e-6) {
		t.Fatalf("FrameScale(0.5) = %v, want 30", FrameScale(0.5))
	}
}
