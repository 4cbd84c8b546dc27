package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController defines the union interface for the first-person camera pose.
// Controllers own positional and rotational state. Camera reads from the controller
// and computes view/projection matrices. Embeds lookCameraController and
// walkCameraController, so orientation and translation are driven from a single
// pose instance.
type CameraController interface {
	lookCameraController
	walkCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// SetPosition sets the camera's world-space position directly. Non-finite
	// coordinates are ignored.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Reset restores identity rotation and snaps the height to the eye level.
	// Horizontal position is kept.
	Reset()
}

// lookCameraController defines the orientation half of the pose.
// Orientation is an Euler triple applied in YXZ order; roll is always zero.
type lookCameraController interface {
	// Yaw returns the rotation around the world Y axis in radians. Unbounded.
	//
	// Returns:
	//   - float32: yaw in radians
	Yaw() float32

	// Pitch returns the rotation around the local X axis in radians.
	//
	// Returns:
	//   - float32: pitch in radians, within [-MaxPitch, MaxPitch]
	Pitch() float32

	// Roll always returns 0.
	//
	// Returns:
	//   - float32: zero
	Roll() float32

	// SetOrientation sets yaw and pitch. Pitch is clamped to [-MaxPitch, MaxPitch].
	// Non-finite angles are ignored.
	//
	// Parameters:
	//   - yaw: rotation around Y in radians
	//   - pitch: rotation around X in radians
	SetOrientation(yaw, pitch float32)

	// MaxPitch returns the pitch limit in radians.
	//
	// Returns:
	//   - float32: the pitch limit
	MaxPitch() float32

	// Quaternion returns the orientation as a unit quaternion (Ry * Rx).
	//
	// Returns:
	//   - mgl32.Quat: the orientation
	Quaternion() mgl32.Quat
}

// walkCameraController defines the translation half of the pose.
// Walking happens on the horizontal plane at a fixed eye height.
type walkCameraController interface {
	// Forward returns the view direction flattened to the XZ plane and normalized.
	// Returns the zero vector when the view direction is vertical.
	//
	// Returns:
	//   - mgl32.Vec3: horizontal forward unit vector
	Forward() mgl32.Vec3

	// Right returns the local right axis flattened to the XZ plane and normalized.
	//
	// Returns:
	//   - mgl32.Vec3: horizontal right unit vector
	Right() mgl32.Vec3

	// Walk displaces the camera horizontally and re-clamps the height to EyeHeight.
	//
	// Parameters:
	//   - dx, dz: world-space displacement on the horizontal plane
	Walk(dx, dz float32)

	// EyeHeight returns the fixed camera height.
	//
	// Returns:
	//   - float32: eye height in world units
	EyeHeight() float32
}
