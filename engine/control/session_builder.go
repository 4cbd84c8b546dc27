package control

import (
	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
)

// SessionBuilderOption is a functional option for configuring a Session.
type SessionBuilderOption func(*sessionImpl)

// WithPose sets the camera pose the session drives.
//
// Parameters:
//   - pose: the camera controller to drive
//
// Returns:
//   - SessionBuilderOption: functional option to set the pose
func WithPose(pose camera.CameraController) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.pose = pose
	}
}

// WithSensorSource sets the device orientation provider.
//
// Parameters:
//   - source: the sensor source
//
// Returns:
//   - SessionBuilderOption: functional option to set the sensor source
func WithSensorSource(source SensorSource) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.source = source
	}
}

// WithPointerLock sets the pointer capture used on desktop.
//
// Parameters:
//   - pointer: the pointer lock implementation
//
// Returns:
//   - SessionBuilderOption: functional option to set the pointer lock
func WithPointerLock(pointer PointerLock) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.pointer = pointer
	}
}

// WithNotifier sets the function that shows permission notices to the user.
//
// Parameters:
//   - notify: the notifier
//
// Returns:
//   - SessionBuilderOption: functional option to set the notifier
func WithNotifier(notify Notifier) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.notify = notify
	}
}

// WithMessages sets the localized permission notices.
//
// Parameters:
//   - messages: the notices
//
// Returns:
//   - SessionBuilderOption: functional option to set the messages
func WithMessages(messages Messages) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.messages = messages
	}
}

// WithMoveSpeed sets the displacement per 60 Hz frame at full movement input.
//
// Parameters:
//   - speed: world units per reference frame
//
// Returns:
//   - SessionBuilderOption: functional option to set the move speed
func WithMoveSpeed(speed float32) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.moveSpeed = speed
	}
}

// WithFusionConfig sets the orientation constants.
//
// Parameters:
//   - cfg: the fusion configuration
//
// Returns:
//   - SessionBuilderOption: functional option to set the fusion configuration
func WithFusionConfig(cfg FusionConfig) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.fusionConfig = cfg
	}
}

// WithJoysticks sets the virtual joystick response.
//
// Parameters:
//   - maxOffset: drag radius in pixels
//   - moveDamping: movement output at full deflection
//   - lookDamping: look output at full deflection
//
// Returns:
//   - SessionBuilderOption: functional option to set the joystick response
func WithJoysticks(maxOffset, moveDamping, lookDamping float32) SessionBuilderOption {
	return func(s *sessionImpl) {
		s.maxOffset = maxOffset
		s.moveDamping = moveDamping
		s.lookDamping = lookDamping
	}
}
