package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-explorer/common"
	"github.com/Carmen-Shannon/oxy-explorer/config"
	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
)

// Panorama defaults.
const (
	PanoramaRadius         = 500
	PanoramaWidthSegments  = 60
	PanoramaHeightSegments = 40
)

type panoramaImpl struct {
	sceneBase

	project config.Project
	source  string

	radius         float32
	widthSegments  int
	heightSegments int

	meshOnce sync.Once
	mesh     Mesh

	model   [16]float32
	texture TextureHandle
	loaded  bool
}

// PanoramaScene is a project's equirectangular image mapped onto the inside of a sphere
// that follows the camera, so walking never reaches the image.
type PanoramaScene interface {
	Scene

	// Project returns the project the panorama belongs to.
	//
	// Returns:
	//   - config.Project: the project
	Project() config.Project

	// Source returns the resolved image path or URL.
	//
	// Returns:
	//   - string: the image source
	Source() string

	// Sampler returns the sampler for the panorama texture. Over/under stereo images
	// sample only the top half.
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler configuration
	Sampler() common.SamplerStagingData

	// Mesh returns the inward-facing sphere geometry. It is built on first use.
	//
	// Returns:
	//   - Mesh: the sphere mesh
	Mesh() Mesh

	// ModelMatrix returns the sphere's model matrix as of the last Update.
	//
	// Returns:
	//   - [16]float32: translation to the camera position
	ModelMatrix() [16]float32

	// Texture returns the texture currently shown. It can belong to the previous
	// panorama until this scene's image has loaded. Zero means none.
	//
	// Returns:
	//   - TextureHandle: the shown texture
	Texture() TextureHandle

	// Loaded reports whether the scene's own image is shown.
	//
	// Returns:
	//   - bool: true once the image has been bound
	Loaded() bool
}

var _ PanoramaScene = &panoramaImpl{}

// NewPanoramaScene creates the panorama for project, reading the image from source.
//
// Parameters:
//   - project: the project whose background is shown
//   - source: the resolved image path or URL
//   - options: functional options to configure the panorama
//
// Returns:
//   - PanoramaScene: the newly created panorama
func NewPanoramaScene(project config.Project, source string, options ...PanoramaBuilderOption) PanoramaScene {
	p := &panoramaImpl{
		sceneBase:      newSceneBase("panorama:" + project.ID),
		project:        project,
		source:         source,
		radius:         PanoramaRadius,
		widthSegments:  PanoramaWidthSegments,
		heightSegments: PanoramaHeightSegments,
	}
	common.Identity(p.model[:])
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *panoramaImpl) Kind() Kind {
	return KindPanorama
}

func (p *panoramaImpl) Project() config.Project {
	return p.project
}

func (p *panoramaImpl) Source() string {
	return p.source
}

func (p *panoramaImpl) Sampler() common.SamplerStagingData {
	return common.PanoramaSampler(p.project.OverUnder)
}

func (p *panoramaImpl) Mesh() Mesh {
	p.meshOnce.Do(func() {
		p.mesh = SphereMesh(p.radius, p.widthSegments, p.heightSegments)
	})
	return p.mesh
}

func (p *panoramaImpl) ModelMatrix() [16]float32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

func (p *panoramaImpl) Texture() TextureHandle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.texture
}

func (p *panoramaImpl) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// Update re-centres the sphere on the camera.
func (p *panoramaImpl) Update(_ float32, pose camera.CameraController) {
	if pose == nil {
		return
	}
	x, y, z := pose.Position()
	p.mu.Lock()
	defer p.mu.Unlock()
	common.BuildModelMatrix(p.model[:], x, y, z, 0, 0, 0, 1, 1, 1)
}

// swapTexture shows h as the scene's own image and returns the texture it replaces.
func (p *panoramaImpl) swapTexture(h TextureHandle) TextureHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.texture
	p.texture = h
	p.loaded = true
	return prev
}

// takeTexture detaches the shown texture so it can be released or handed on.
func (p *panoramaImpl) takeTexture() TextureHandle {
	p.mu.Lock()
	defer p.mu.Unlock()
	h := p.texture
	p.texture = 0
	return h
}
