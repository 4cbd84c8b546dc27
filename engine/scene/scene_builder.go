package scene

// RoomBuilderOption is a functional option for configuring a RoomScene.
// Use the With* functions to create options.
type RoomBuilderOption func(r *roomImpl)

// WithRoomSize sets the wireframe box dimensions.
//
// Parameters:
//   - width, height, depth: box extents in world units
//
// Returns:
//   - RoomBuilderOption: option function to apply
func WithRoomSize(width, height, depth float32) RoomBuilderOption {
	return func(r *roomImpl) {
		r.width, r.height, r.depth = width, height, depth
	}
}

// WithStructureCount sets how many drawing structures are placed.
//
// Parameters:
//   - n: the number of structures (negative values are treated as zero)
//
// Returns:
//   - RoomBuilderOption: option function to apply
func WithStructureCount(n int) RoomBuilderOption {
	return func(r *roomImpl) {
		r.count = max(n, 0)
	}
}

// WithSeed makes structure placement deterministic.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - RoomBuilderOption: option function to apply
func WithSeed(seed uint64) RoomBuilderOption {
	return func(r *roomImpl) {
		r.seed = seed
	}
}

// PanoramaBuilderOption is a functional option for configuring a PanoramaScene.
type PanoramaBuilderOption func(p *panoramaImpl)

// WithRadius sets the sphere radius.
//
// Parameters:
//   - radius: sphere radius in world units
//
// Returns:
//   - PanoramaBuilderOption: option function to apply
func WithRadius(radius float32) PanoramaBuilderOption {
	return func(p *panoramaImpl) {
		p.radius = radius
	}
}

// WithSegments sets the sphere tessellation.
//
// Parameters:
//   - width: segments around the equator
//   - height: segments from pole to pole
//
// Returns:
//   - PanoramaBuilderOption: option function to apply
func WithSegments(width, height int) PanoramaBuilderOption {
	return func(p *panoramaImpl) {
		p.widthSegments, p.heightSegments = width, height
	}
}

// WithTexture shows an already bound texture until the scene's own image has loaded.
//
// Parameters:
//   - h: the handle to show meanwhile
//
// Returns:
//   - PanoramaBuilderOption: option function to apply
func WithTexture(h TextureHandle) PanoramaBuilderOption {
	return func(p *panoramaImpl) {
		p.texture = h
	}
}
