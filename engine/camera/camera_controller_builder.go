package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial camera position. The Y component is replaced by the eye height.
//
// Parameters:
//   - x, z: horizontal coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(x, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position[0] = x
		cc.position[2] = z
	}
}

// WithEyeHeight sets the fixed camera height.
//
// Parameters:
//   - height: eye height in world units
//
// Returns:
//   - CameraControllerOption: functional option to set the eye height
func WithEyeHeight(height float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.eyeHeight = height
	}
}

// WithMaxPitch sets the pitch limit.
//
// Parameters:
//   - maxPitch: limit in radians, applied symmetrically
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch limit
func WithMaxPitch(maxPitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.maxPitch = maxPitch
	}
}

// WithYaw sets the initial yaw.
//
// Parameters:
//   - yaw: rotation around Y in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the yaw
func WithYaw(yaw float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.yaw = yaw
	}
}
