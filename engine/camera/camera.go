package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-explorer/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultFovDegrees = 75
	defaultNear       = 0.1
	defaultFar        = 100
	defaultAspect     = 16.0 / 9.0
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix       [16]float32
	projectionMatrix [16]float32

	controller CameraController
}

// Camera is the first-person lens attached to a CameraController.
// Update derives the view matrix from the controller's position and YXZ
// orientation; the projection follows the lens and the viewport. The matrices
// are handed to the external renderer.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the viewport aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the view matrix computed by the last Update (column-major).
	//
	// Returns:
	//   - [16]float32: the world-to-eye transform
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the perspective projection (column-major, depth 0..1).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// Controller returns the pose this camera follows.
	Controller() CameraController

	// Update recomputes the view matrix from the controller. Call once per frame
	// after the pose has been integrated.
	Update()

	// Resize adopts a new viewport size. A minimized window reports a zero
	// dimension; such sizes are ignored and the previous aspect is kept.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	Resize(width, height int)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with a 75 degree lens, 0.1 near plane, 100 far plane
// and a 16:9 viewport. Without WithController it follows a fresh CameraController.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    defaultFovDegrees * (math.Pi / 180),
		aspect: defaultAspect,
		near:   defaultNear,
		far:    defaultFar,
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateProjection()
	c.updateView()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateView()
}

func (c *cameraImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = float32(width) / float32(height)
	c.updateProjection()
}

// updateView inverts the pose: the conjugate orientation applied after moving
// the eye to the origin. Caller must hold the mutex.
func (c *cameraImpl) updateView() {
	px, py, pz := c.controller.Position()
	view := c.controller.Quaternion().Conjugate().Mat4().Mul4(mgl32.Translate3D(-px, -py, -pz))
	c.viewMatrix = [16]float32(view)
}

// updateProjection rebuilds the projection from the lens. Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
}
