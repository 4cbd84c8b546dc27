package control

import (
	"math"

	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

// Rotation defaults.
const (
	DefaultRotationSpeed    = 0.05
	DefaultMouseSensitivity = 0.002
)

// OrientationReference is the device orientation captured when sensor mode starts.
// All later samples are applied relative to it.
type OrientationReference struct {
	Alpha, Beta, Gamma float64
	ScreenAngle        float64
}

// Calibration holds per-axis sign multipliers applied to raw sensor angles.
type Calibration struct {
	Alpha, Beta, Gamma float64
}

// IdentityCalibration passes sensor angles through unchanged.
var IdentityCalibration = Calibration{Alpha: 1, Beta: 1, Gamma: 1}

// FusionConfig configures a Fusion.
type FusionConfig struct {
	RotationSpeed    float32
	MouseSensitivity float32

	// Calibration is applied to samples from non-iOS devices, IOSCalibration to iOS devices.
	Calibration    Calibration
	IOSCalibration Calibration

	// Smoothing eases sensor targets with a critically damped spring.
	Smoothing          bool
	SmoothingFrequency float64
}

// DefaultFusionConfig returns the standard rotation constants.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		RotationSpeed:      DefaultRotationSpeed,
		MouseSensitivity:   DefaultMouseSensitivity,
		Calibration:        IdentityCalibration,
		IOSCalibration:     IdentityCalibration,
		SmoothingFrequency: 12,
	}
}

// Fusion owns the orientation update rules for the manual and sensor paths.
// Exactly one path is applied per frame; the Session picks which.
// Not safe for concurrent use; the Session serializes access.
type Fusion struct {
	cfg FusionConfig

	reference *OrientationReference
	refQuat   mgl32.Quat
	seed      mgl32.Quat

	yawVel   float64
	pitchVel float64
}

// NewFusion creates a fusion engine.
func NewFusion(cfg FusionConfig) *Fusion {
	if cfg.RotationSpeed == 0 {
		cfg.RotationSpeed = DefaultRotationSpeed
	}
	if cfg.MouseSensitivity == 0 {
		cfg.MouseSensitivity = DefaultMouseSensitivity
	}
	if cfg.Calibration == (Calibration{}) {
		cfg.Calibration = IdentityCalibration
	}
	if cfg.IOSCalibration == (Calibration{}) {
		cfg.IOSCalibration = IdentityCalibration
	}
	if cfg.SmoothingFrequency <= 0 {
		cfg.SmoothingFrequency = 12
	}
	return &Fusion{cfg: cfg, refQuat: mgl32.QuatIdent(), seed: mgl32.QuatIdent()}
}

// ApplyManual integrates a look vector into yaw and pitch.
//
// Parameters:
//   - pose: the camera pose to rotate
//   - look: look intent for this frame
//   - k60: frame scale relative to a 60 Hz frame
func (f *Fusion) ApplyManual(pose camera.CameraController, look Vector2, k60 float32) {
	if look.IsZero() {
		return
	}
	step := f.cfg.RotationSpeed * k60
	pose.SetOrientation(pose.Yaw()-look.X*step, pose.Pitch()-look.Y*step)
}

// ApplyMouse applies a pointer-lock mouse delta immediately.
//
// Parameters:
//   - pose: the camera pose to rotate
//   - dx, dy: mouse movement in pixels
func (f *Fusion) ApplyMouse(pose camera.CameraController, dx, dy float32) {
	s := f.cfg.MouseSensitivity
	pose.SetOrientation(pose.Yaw()-dx*s, pose.Pitch()-dy*s)
}

// BeginSensor prepares for sensor input. The live pose becomes the seed so the
// view does not jump, and the next valid sample becomes the reference.
func (f *Fusion) BeginSensor(pose camera.CameraController) {
	f.reference = nil
	f.refQuat = mgl32.QuatIdent()
	f.seed = pose.Quaternion()
	f.yawVel, f.pitchVel = 0, 0
}

// EndSensor clears the reference.
func (f *Fusion) EndSensor() {
	f.reference = nil
	f.yawVel, f.pitchVel = 0, 0
}

// Reference returns a copy of the captured reference, or nil if none is captured.
func (f *Fusion) Reference() *OrientationReference {
	if f.reference == nil {
		return nil
	}
	ref := *f.reference
	return &ref
}

// ApplySensor applies one orientation sample. Samples with missing angles are dropped.
// The first valid sample after BeginSensor is stored as the reference and does not rotate the pose.
//
// Parameters:
//   - pose: the camera pose to rotate
//   - sample: the orientation reading
//   - platform: capabilities of the device that produced the sample
//   - dt: frame time in seconds, used by smoothing
//
// Returns:
//   - bool: true if the pose was rotated
func (f *Fusion) ApplySensor(pose camera.CameraController, sample OrientationSample, platform Platform, dt float32) bool {
	if !sample.Valid() {
		return false
	}
	cal := f.cfg.Calibration
	if platform.IOS {
		cal = f.cfg.IOSCalibration
	}

	if f.reference == nil {
		f.reference = &OrientationReference{
			Alpha:       *sample.Alpha,
			Beta:        *sample.Beta,
			Gamma:       *sample.Gamma,
			ScreenAngle: sample.ScreenAngle,
		}
		f.refQuat = deviceQuat(*sample.Alpha, *sample.Beta, *sample.Gamma, sample.ScreenAngle, cal)
		return false
	}

	dev := deviceQuat(*sample.Alpha, *sample.Beta, *sample.Gamma, sample.ScreenAngle, cal)
	delta := f.refQuat.Inverse().Mul(dev)
	yaw, pitch := yawPitch(f.seed.Mul(delta))

	current := pose.Yaw()
	yaw = unwrapNear(yaw, current)
	maxPitch := pose.MaxPitch()
	pitch = mgl32.Clamp(pitch, -maxPitch, maxPitch)

	if f.cfg.Smoothing && dt > 0 {
		spring := harmonica.NewSpring(float64(dt), f.cfg.SmoothingFrequency, 1.0)
		var y, p float64
		y, f.yawVel = spring.Update(float64(current), f.yawVel, float64(yaw))
		p, f.pitchVel = spring.Update(float64(pose.Pitch()), f.pitchVel, float64(pitch))
		yaw, pitch = float32(y), float32(p)
	}

	pose.SetOrientation(yaw, pitch)
	return true
}

// deviceQuat converts device angles (degrees) to a camera orientation:
// Ry(alpha) * Rx(beta) * Rz(-gamma), then -90 degrees about X so an upright
// device looks forward, then the screen rotation about Z.
func deviceQuat(alpha, beta, gamma, screen float64, cal Calibration) mgl32.Quat {
	a := mgl32.DegToRad(float32(alpha * cal.Alpha))
	b := mgl32.DegToRad(float32(beta * cal.Beta))
	g := mgl32.DegToRad(float32(gamma * cal.Gamma))
	o := mgl32.DegToRad(float32(screen))

	q := mgl32.QuatRotate(a, mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(b, mgl32.Vec3{1, 0, 0})).
		Mul(mgl32.QuatRotate(-g, mgl32.Vec3{0, 0, 1}))
	q = q.Mul(mgl32.QuatRotate(-math.Pi/2, mgl32.Vec3{1, 0, 0}))
	q = q.Mul(mgl32.QuatRotate(-o, mgl32.Vec3{0, 0, 1}))
	return q.Normalize()
}

// yawPitch extracts YXZ Euler yaw and pitch from q. Roll is discarded.
func yawPitch(q mgl32.Quat) (yaw, pitch float32) {
	m := q.Normalize().Mat4()
	m13, m23, m33 := m.At(0, 2), m.At(1, 2), m.At(2, 2)

	pitch = float32(math.Asin(float64(mgl32.Clamp(-m23, -1, 1))))
	if math.Abs(float64(m23)) < 0.9999999 {
		yaw = float32(math.Atan2(float64(m13), float64(m33)))
	} else {
		yaw = float32(math.Atan2(float64(-m.At(2, 0)), float64(m.At(0, 0))))
	}
	return yaw, pitch
}

// unwrapNear returns the angle equivalent to a that is closest to ref.
func unwrapNear(a, ref float32) float32 {
	d := math.Remainder(float64(a-ref), 2*math.Pi)
	return ref + float32(d)
}
