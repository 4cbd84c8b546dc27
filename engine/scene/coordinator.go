package scene

import (
	"log"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-explorer/config"
	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
	"github.com/Carmen-Shannon/oxy-explorer/engine/texture"
)

type coordinatorImpl struct {
	mu *sync.Mutex

	cfg config.ViewerConfig

	binder     TextureBinder
	loader     texture.AsyncLoader
	ownsLoader bool

	roomOptions     []RoomBuilderOption
	panoramaOptions []PanoramaBuilderOption
	onSwap          func(Scene)

	route  string
	active Scene
	ticket uint64
	closed bool
}

// Coordinator selects the backdrop for the current route and keeps it updated.
// Project routes whose project has a background image show a panorama; every other
// route shows the exhibition room.
type Coordinator interface {
	// SetRoute switches the backdrop for route. Switching between routes that map to
	// the same backdrop keeps the current scene.
	//
	// Parameters:
	//   - route: the page path, e.g. "/projects/human-within"
	//
	// Returns:
	//   - Scene: the active scene after the switch
	SetRoute(route string) Scene

	// Route returns the current route.
	//
	// Returns:
	//   - string: the route last passed to SetRoute
	Route() string

	// Active returns the scene currently shown.
	//
	// Returns:
	//   - Scene: the active scene
	Active() Scene

	// Update applies finished texture loads, then advances the active scene.
	// Call once per frame after the camera pose has been updated.
	//
	// Parameters:
	//   - dt: frame delta time in seconds
	//   - pose: the live camera pose
	Update(dt float32, pose camera.CameraController)

	// Close releases the shown texture and stops a loader the coordinator created.
	Close()
}

var _ Coordinator = &coordinatorImpl{}

// NewCoordinator creates a Coordinator showing the room for "/".
// Without WithBinder an in-process StagingBinder is used; without WithAsyncLoader a
// loader reading from the local disk and the network is created and owned.
//
// Parameters:
//   - cfg: the viewer configuration holding the projects
//   - options: functional options to configure the coordinator
//
// Returns:
//   - Coordinator: the newly created coordinator
func NewCoordinator(cfg config.ViewerConfig, options ...CoordinatorBuilderOption) Coordinator {
	c := &coordinatorImpl{
		mu:  &sync.Mutex{},
		cfg: cfg,
	}
	for _, option := range options {
		option(c)
	}
	if c.binder == nil {
		c.binder = NewStagingBinder()
	}
	if c.loader == nil {
		c.loader = texture.NewAsyncLoader(texture.NewLoader())
		c.ownsLoader = true
	}
	c.SetRoute("/")
	return c
}

func (c *coordinatorImpl) SetRoute(route string) Scene {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.active
	}
	c.route = route

	project, ok := c.cfg.ProjectForRoute(route)
	if !ok && strings.HasPrefix(route, config.ProjectsRoutePrefix) {
		log.Printf("[Scene] no project for %s, showing the room", route)
	}
	if ok && project.BackgroundImage == "" {
		log.Printf("[Scene] project %s has no background image, showing the room", project.ID)
		ok = false
	}

	if ok {
		source := c.cfg.ImagePath(project.BackgroundImage)
		if cur, isPano := c.active.(*panoramaImpl); isPano && cur.project.ID == project.ID && cur.source == source {
			return c.active
		}
		var carried TextureHandle
		if cur, isPano := c.active.(*panoramaImpl); isPano {
			carried = cur.takeTexture()
		}
		opts := append(append([]PanoramaBuilderOption{}, c.panoramaOptions...), WithTexture(carried))
		pano := NewPanoramaScene(project, source, opts...)
		c.ticket = c.loader.Request(source)
		log.Printf("[Scene] loading panorama for %s from %s", project.ID, source)
		c.activate(pano)
		return c.active
	}

	if c.active != nil && c.active.Kind() == KindRoom {
		return c.active
	}
	if cur, isPano := c.active.(*panoramaImpl); isPano {
		if h := cur.takeTexture(); h != 0 {
			c.binder.Release(h)
		}
	}
	c.ticket = 0
	c.activate(NewRoomScene(c.roomOptions...))
	return c.active
}

// activate hides the current scene and shows next. Caller must hold the mutex.
func (c *coordinatorImpl) activate(next Scene) {
	if c.active != nil {
		c.active.SetActive(false)
	}
	next.SetActive(true)
	c.active = next
	if c.onSwap != nil {
		c.onSwap(next)
	}
}

func (c *coordinatorImpl) Route() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route
}

func (c *coordinatorImpl) Active() Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *coordinatorImpl) Update(dt float32, pose camera.CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	for _, r := range c.loader.Poll() {
		if r.Ticket != c.ticket {
			continue
		}
		c.ticket = 0
		pano, ok := c.active.(*panoramaImpl)
		if !ok {
			continue
		}
		if r.Err != nil {
			log.Printf("[Scene] failed to load panorama %s: %v", r.Source, r.Err)
			continue
		}
		h, err := c.binder.Bind(r.Texture, pano.Sampler())
		if err != nil {
			log.Printf("[Scene] failed to bind panorama %s: %v", r.Source, err)
			continue
		}
		if prev := pano.swapTexture(h); prev != 0 {
			c.binder.Release(prev)
		}
	}

	c.active.Update(dt, pose)
}

func (c *coordinatorImpl) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if pano, ok := c.active.(*panoramaImpl); ok {
		if h := pano.takeTexture(); h != 0 {
			c.binder.Release(h)
		}
	}
	if c.ownsLoader {
		c.loader.Close()
	}
}
