package viewer

import (
	"github.com/Carmen-Shannon/oxy-explorer/engine/control"
	"github.com/Carmen-Shannon/oxy-explorer/engine/scene"
	"github.com/Carmen-Shannon/oxy-explorer/engine/sensorbridge"
	"github.com/Carmen-Shannon/oxy-explorer/engine/texture"
	"github.com/Carmen-Shannon/oxy-explorer/engine/window"
)

// ViewerBuilderOption is a functional option for configuring a Viewer.
type ViewerBuilderOption func(*viewerImpl)

// WithWindow binds the viewer to a window: its events drive the viewer, its cursor
// is captured while exploring and its title shows the heads-up text.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - ViewerBuilderOption: a function that sets the window
func WithWindow(w window.Window) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.win = w
	}
}

// WithPointerLock overrides the pointer capture, which defaults to the window's.
func WithPointerLock(p control.PointerLock) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.pointer = p
	}
}

// WithSensorSource sets the device orientation provider.
//
// Parameters:
//   - source: the sensor source
//
// Returns:
//   - ViewerBuilderOption: a function that sets the source
func WithSensorSource(source control.SensorSource) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.source = source
	}
}

// WithSensorBridge creates a phone sensor bridge and uses it as the sensor source.
// Phones connecting or leaving re-evaluate touch input. The caller starts it with
// Bridge().ListenAndServe.
//
// Parameters:
//   - options: options passed to sensorbridge.NewServer
//
// Returns:
//   - ViewerBuilderOption: a function that enables the bridge
func WithSensorBridge(options ...sensorbridge.ServerBuilderOption) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.useBridge = true
		v.bridgeOptions = options
	}
}

// WithTouchEmulation makes left mouse drags in the bottom quadrants drive the
// on-screen joysticks. Without a sensor source a synthetic touch device is used so
// exploring does not capture the pointer.
func WithTouchEmulation(enabled bool) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.touchEmulation = enabled
	}
}

// WithTextureLoader sets the loader used for panorama images. The viewer runs it
// on its own worker pool and stops the pool on Close.
//
// Parameters:
//   - l: the texture loader
//
// Returns:
//   - ViewerBuilderOption: a function that sets the loader
func WithTextureLoader(l texture.Loader) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.textureLoader = l
	}
}

// WithCoordinatorOptions passes options to the scene coordinator.
func WithCoordinatorOptions(options ...scene.CoordinatorBuilderOption) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.coordinatorOptions = append(v.coordinatorOptions, options...)
	}
}

// WithNotifier receives every notice shown to the user, in addition to the title.
func WithNotifier(fn control.Notifier) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.notifyHook = fn
	}
}

// WithSize sets the viewport size used without a window.
//
// Parameters:
//   - width, height: viewport size in pixels
//
// Returns:
//   - ViewerBuilderOption: a function that sets the size
func WithSize(width, height int) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.width = width
		v.height = height
	}
}
