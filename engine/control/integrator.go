package control

import (
	"math"

	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
)

// Movement defaults.
const (
	// DefaultMoveSpeed is the displacement per 60 Hz frame at full input.
	DefaultMoveSpeed = 0.15
	// ReferenceFPS is the frame rate the per-frame constants are tuned for.
	ReferenceFPS = 60
)

// Integrator translates the camera on the horizontal plane from a movement vector.
type Integrator struct {
	speed float32
}

// NewIntegrator creates an integrator. A non-positive speed selects DefaultMoveSpeed.
func NewIntegrator(speed float32) *Integrator {
	if speed <= 0 {
		speed = DefaultMoveSpeed
	}
	return &Integrator{speed: speed}
}

// Speed returns the displacement per 60 Hz frame at full input.
func (in *Integrator) Speed() float32 {
	return in.speed
}

// Step moves the pose by forward*(-m.Y*speed*k60) + right*(m.X*speed*k60)
// and pins the height to the eye level.
//
// Parameters:
//   - pose: the camera pose to translate
//   - m: movement intent
//   - k60: frame scale relative to a 60 Hz frame
func (in *Integrator) Step(pose camera.CameraController, m Vector2, k60 float32) {
	forward := pose.Forward()
	right := pose.Right()

	f := -m.Y * in.speed * k60
	r := m.X * in.speed * k60

	dx := forward[0]*f + right[0]*r
	dz := forward[2]*f + right[2]*r
	pose.Walk(dx, dz)
}

// FrameScale converts a frame time in seconds to a multiple of a 60 Hz frame.
// Negative, NaN and infinite values yield 0.
func FrameScale(dt float32) float32 {
	if dt <= 0 || math.IsNaN(float64(dt)) || math.IsInf(float64(dt), 0) {
		return 0
	}
	return dt * ReferenceFPS
}

func pow32(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}
