package scene

import (
	"github.com/Carmen-Shannon/oxy-explorer/engine/texture"
)

// CoordinatorBuilderOption is a functional option for configuring a Coordinator.
type CoordinatorBuilderOption func(c *coordinatorImpl)

// WithBinder sets the renderer's texture binder.
//
// Parameters:
//   - b: the binder textures are uploaded through
//
// Returns:
//   - CoordinatorBuilderOption: option function to apply
func WithBinder(b TextureBinder) CoordinatorBuilderOption {
	return func(c *coordinatorImpl) {
		c.binder = b
	}
}

// WithAsyncLoader sets the loader panorama images are read with. The caller keeps
// ownership and closes it.
//
// Parameters:
//   - l: the async texture loader
//
// Returns:
//   - CoordinatorBuilderOption: option function to apply
func WithAsyncLoader(l texture.AsyncLoader) CoordinatorBuilderOption {
	return func(c *coordinatorImpl) {
		c.loader = l
		c.ownsLoader = false
	}
}

// WithRoomOptions sets the options every new room is built with.
func WithRoomOptions(options ...RoomBuilderOption) CoordinatorBuilderOption {
	return func(c *coordinatorImpl) {
		c.roomOptions = options
	}
}

// WithPanoramaOptions sets the options every new panorama is built with.
func WithPanoramaOptions(options ...PanoramaBuilderOption) CoordinatorBuilderOption {
	return func(c *coordinatorImpl) {
		c.panoramaOptions = options
	}
}

// WithOnSwap registers a callback run whenever a different scene becomes active.
// It runs with the coordinator locked and must not call back into it.
//
// Parameters:
//   - fn: receives the newly active scene
//
// Returns:
//   - CoordinatorBuilderOption: option function to apply
func WithOnSwap(fn func(Scene)) CoordinatorBuilderOption {
	return func(c *coordinatorImpl) {
		c.onSwap = fn
	}
}
