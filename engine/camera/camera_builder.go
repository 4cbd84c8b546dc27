package camera

import (
	"github.com/Carmen-Shannon/oxy-explorer/config"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithLens applies the configured field of view (degrees) and clip planes.
// Zero fields keep the defaults.
//
// Parameters:
//   - lens: the camera section of the viewer configuration
//
// Returns:
//   - CameraBuilderOption: functional option to set the lens
func WithLens(lens config.CameraConfig) CameraBuilderOption {
	return func(c *cameraImpl) {
		if lens.Fov > 0 {
			c.fov = mgl32.DegToRad(lens.Fov)
		}
		if lens.Near > 0 {
			c.near = lens.Near
		}
		if lens.Far > c.near {
			c.far = lens.Far
		}
	}
}

// WithViewport sets the initial viewport size; zero dimensions keep 16:9.
func WithViewport(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width > 0 && height > 0 {
			c.aspect = float32(width) / float32(height)
		}
	}
}

// WithController sets the pose the camera follows.
//
// Parameters:
//   - ctrl: the controller to follow
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
