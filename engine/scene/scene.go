// Package scene holds the two backdrops the viewer swaps between: the generated
// exhibition room and the panorama sphere of a project page. The Coordinator picks
// one from the current route and keeps it updated every frame.
package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
)

// Kind identifies the type of a Scene.
type Kind int

const (
	// KindRoom is the generated wireframe exhibition room.
	KindRoom Kind = iota
	// KindPanorama is the equirectangular background sphere.
	KindPanorama
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindPanorama:
		return "panorama"
	}
	return "unknown"
}

// Scene is a backdrop the renderer draws behind the overlay.
type Scene interface {
	// Name returns the name of the scene.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Kind returns the scene type.
	//
	// Returns:
	//   - Kind: room or panorama
	Kind() Kind

	// Active returns whether the scene is currently shown.
	//
	// Returns:
	//   - bool: true while the scene is shown
	Active() bool

	// SetActive marks the scene as shown or hidden.
	//
	// Parameters:
	//   - active: whether the scene is shown
	SetActive(active bool)

	// Update advances the scene by dt seconds. pose is the live camera, which
	// scenes may follow but never move.
	//
	// Parameters:
	//   - dt: frame delta time in seconds
	//   - pose: the live camera pose
	Update(dt float32, pose camera.CameraController)
}

type sceneBase struct {
	mu *sync.RWMutex

	name   string
	active bool
}

func newSceneBase(name string) sceneBase {
	return sceneBase{mu: &sync.RWMutex{}, name: name}
}

func (s *sceneBase) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *sceneBase) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *sceneBase) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}
