package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32

	yaw   float32
	pitch float32

	eyeHeight float32
	maxPitch  float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a first-person pose standing at the origin at eye height.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		eyeHeight: 1.7,
		maxPitch:  float32(math.Pi / 2.5),
	}

	for _, option := range options {
		option(cc)
	}

	cc.position[1] = cc.eyeHeight
	cc.pitch = mgl32.Clamp(cc.pitch, -cc.maxPitch, cc.maxPitch)
	return cc
}

// --- internal helpers ---

// quat builds the YXZ orientation quaternion. Caller must hold the mutex.
func (cc *cameraControllerImpl) quat() mgl32.Quat {
	qy := mgl32.QuatRotate(cc.yaw, mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(cc.pitch, mgl32.Vec3{1, 0, 0})
	return qy.Mul(qx)
}

// flatten zeroes the Y component and renormalizes. A degenerate vector yields zero.
func flatten(v mgl32.Vec3) mgl32.Vec3 {
	v[1] = 0
	l := v.Len()
	if l < 1e-6 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	if !finite(x) || !finite(y) || !finite(z) {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[0] = x
	cc.position[1] = y
	cc.position[2] = z
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = 0
	cc.pitch = 0
	cc.position[1] = cc.eyeHeight
}

// --- lookCameraController implementation ---

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) Roll() float32 {
	return 0
}

func (cc *cameraControllerImpl) SetOrientation(yaw, pitch float32) {
	if !finite(yaw) || !finite(pitch) {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = yaw
	cc.pitch = mgl32.Clamp(pitch, -cc.maxPitch, cc.maxPitch)
}

func (cc *cameraControllerImpl) MaxPitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxPitch
}

func (cc *cameraControllerImpl) Quaternion() mgl32.Quat {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.quat()
}

// --- walkCameraController implementation ---

func (cc *cameraControllerImpl) Forward() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return flatten(cc.quat().Rotate(mgl32.Vec3{0, 0, -1}))
}

func (cc *cameraControllerImpl) Right() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return flatten(cc.quat().Rotate(mgl32.Vec3{1, 0, 0}))
}

func (cc *cameraControllerImpl) Walk(dx, dz float32) {
	if !finite(dx) || !finite(dz) {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[0] += dx
	cc.position[2] += dz
	cc.position[1] = cc.eyeHeight
}

func (cc *cameraControllerImpl) EyeHeight() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.eyeHeight
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
