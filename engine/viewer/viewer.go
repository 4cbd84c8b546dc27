// Package viewer composes the camera, the control session and the scene
// coordinator into the explorable viewer, and maps window events onto them.
package viewer

import (
	"log"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-explorer/common"
	"github.com/Carmen-Shannon/oxy-explorer/config"
	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
	"github.com/Carmen-Shannon/oxy-explorer/engine/control"
	"github.com/Carmen-Shannon/oxy-explorer/engine/scene"
	"github.com/Carmen-Shannon/oxy-explorer/engine/sensorbridge"
	"github.com/Carmen-Shannon/oxy-explorer/engine/texture"
	"github.com/Carmen-Shannon/oxy-explorer/engine/window"
)

// noticeDuration is how long a permission notice stays in the title, in seconds.
const noticeDuration = 4

// Viewer is the explorable 3D view of the portfolio.
type Viewer interface {
	// Navigate switches to the page at path. Leaving a page stops exploring.
	//
	// Parameters:
	//   - path: the page route, e.g. "/" or "/projects/human-within"
	Navigate(path string)

	// Route returns the current page route.
	Route() string

	// Camera returns the camera whose matrices a renderer reads.
	Camera() camera.Camera

	// Session returns the control state machine.
	Session() control.Session

	// Scene returns the backdrop currently shown.
	Scene() scene.Scene

	// Bridge returns the phone sensor bridge, or nil when none was configured.
	Bridge() sensorbridge.Server

	// Title returns the heads-up text shown in the window title.
	Title() string

	// Frame advances one frame: the control session moves the camera, the backdrop
	// follows it, then the camera matrices are rebuilt.
	//
	// Parameters:
	//   - dt: frame delta time in seconds
	Frame(dt float32)

	// RefreshCapabilities re-evaluates touch input, e.g. after a phone connects.
	RefreshCapabilities()

	KeyDown(key int)
	KeyUp(key int)
	MouseDown(button window.MouseButton, x, y float32)
	MouseUp(button window.MouseButton, x, y float32)
	MouseMove(x, y, dx, dy float32)
	FocusChanged(focused bool)
	Resize(width, height int)

	// Close stops exploring, releases the backdrop and disconnects the bridge.
	Close()
}

type viewerImpl struct {
	mu *sync.Mutex

	cfg  config.ViewerConfig
	lang string

	win           window.Window
	pointer       control.PointerLock
	source        control.SensorSource
	bridge        sensorbridge.Server
	bridgeOptions []sensorbridge.ServerBuilderOption
	useBridge     bool

	textureLoader      texture.Loader
	asyncLoader        texture.AsyncLoader
	coordinatorOptions []scene.CoordinatorBuilderOption
	touchEmulation     bool
	notifyHook         control.Notifier
	width, height      int

	pose        camera.CameraController
	cam         camera.Camera
	session     control.Session
	coordinator scene.Coordinator

	// dragging is the joystick held by the mouse, if any.
	dragging   *control.Stick
	notice     string
	noticeLeft float32
	title      string
	closeOnce  sync.Once
}

var _ Viewer = &viewerImpl{}

// NewViewer creates a viewer showing the home page.
//
// Parameters:
//   - cfg: the viewer configuration
//   - options: functional options to configure the viewer
//
// Returns:
//   - Viewer: the newly created viewer
func NewViewer(cfg config.ViewerConfig, options ...ViewerBuilderOption) Viewer {
	v := &viewerImpl{
		mu:     &sync.Mutex{},
		cfg:    cfg,
		lang:   cfg.Language,
		width:  1280,
		height: 720,
	}
	for _, option := range options {
		option(v)
	}
	if v.win != nil {
		v.width, v.height = v.win.Width(), v.win.Height()
		if v.pointer == nil {
			v.pointer = v.win
		}
	}

	if v.useBridge {
		opts := append(append([]sensorbridge.ServerBuilderOption{}, v.bridgeOptions...),
			sensorbridge.WithOnChange(v.RefreshCapabilities))
		v.bridge = sensorbridge.NewServer(opts...)
		v.source = v.bridge
	}
	if v.source == nil && v.touchEmulation {
		v.source = control.NewSyntheticSource(control.Platform{Touch: true, SecureContext: true})
	}

	v.pose = camera.NewCameraController(
		camera.WithPosition(cfg.Camera.Position[0], cfg.Camera.Position[2]),
		camera.WithEyeHeight(cfg.EyeHeight),
		camera.WithMaxPitch(cfg.Controls.MaxPitch),
	)
	v.cam = camera.NewCamera(
		camera.WithController(v.pose),
		camera.WithLens(cfg.Camera),
		camera.WithViewport(v.width, v.height),
	)

	fusion := control.DefaultFusionConfig()
	fusion.RotationSpeed = cfg.Controls.RotationSpeed
	fusion.MouseSensitivity = cfg.Controls.MouseSensitivity
	fusion.Smoothing = cfg.Controls.SensorSmoothing

	sessionOptions := []control.SessionBuilderOption{
		control.WithPose(v.pose),
		control.WithNotifier(v.notify),
		control.WithMessages(control.Messages{
			HTTPSRequired:      cfg.Messages.HTTPSRequired.Get(v.lang),
			OrientationEnabled: cfg.Messages.OrientationEnabled.Get(v.lang),
			OrientationError:   cfg.Messages.OrientationError.Get(v.lang),
		}),
		control.WithMoveSpeed(cfg.Controls.MoveSpeed),
		control.WithFusionConfig(fusion),
		control.WithJoysticks(cfg.Controls.MaxOffset, cfg.Controls.MoveDamping, cfg.Controls.LookDamping),
	}
	if v.source != nil {
		sessionOptions = append(sessionOptions, control.WithSensorSource(v.source))
	}
	if v.pointer != nil {
		sessionOptions = append(sessionOptions, control.WithPointerLock(v.pointer))
	}
	v.session = control.NewSession(sessionOptions...)

	coordinatorOptions := v.coordinatorOptions
	if v.textureLoader != nil {
		v.asyncLoader = texture.NewAsyncLoader(v.textureLoader)
		coordinatorOptions = append([]scene.CoordinatorBuilderOption{scene.WithAsyncLoader(v.asyncLoader)}, coordinatorOptions...)
	}
	v.coordinator = scene.NewCoordinator(cfg, coordinatorOptions...)

	if v.win != nil {
		v.bindWindow(v.win)
	}
	v.refreshTitle()
	return v
}

// bindWindow routes window events to the viewer.
func (v *viewerImpl) bindWindow(w window.Window) {
	w.SetKeyDownCallback(v.KeyDown)
	w.SetKeyUpCallback(v.KeyUp)
	w.SetMouseDownCallback(v.MouseDown)
	w.SetMouseUpCallback(v.MouseUp)
	w.SetMouseMoveCallback(v.MouseMove)
	w.SetFocusCallback(v.FocusChanged)
	w.SetResizeCallback(v.Resize)
}

func (v *viewerImpl) Navigate(path string) {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == v.coordinator.Route() {
		return
	}
	v.session.StopExploring()
	v.releaseJoystick()
	v.coordinator.SetRoute(path)
	log.Printf("[Viewer] navigated to %s", path)
	v.refreshTitle()
}

func (v *viewerImpl) Route() string {
	return v.coordinator.Route()
}

func (v *viewerImpl) Camera() camera.Camera {
	return v.cam
}

func (v *viewerImpl) Session() control.Session {
	return v.session
}

func (v *viewerImpl) Scene() scene.Scene {
	return v.coordinator.Active()
}

func (v *viewerImpl) Bridge() sensorbridge.Server {
	return v.bridge
}

func (v *viewerImpl) Title() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.title
}

func (v *viewerImpl) Frame(dt float32) {
	v.session.Frame(dt)
	v.coordinator.Update(dt, v.pose)
	v.cam.Update()

	v.mu.Lock()
	if v.noticeLeft > 0 {
		v.noticeLeft -= dt
		if v.noticeLeft <= 0 {
			v.notice = ""
		}
	}
	v.mu.Unlock()
	v.refreshTitle()
}

func (v *viewerImpl) RefreshCapabilities() {
	if v.session == nil {
		return
	}
	v.session.RefreshCapabilities()
	v.refreshTitle()
}

func (v *viewerImpl) Close() {
	v.closeOnce.Do(func() {
		v.session.Close()
		v.coordinator.Close()
		if v.asyncLoader != nil {
			v.asyncLoader.Close()
		}
		if v.bridge != nil {
			v.bridge.Close()
		}
		log.Printf("[Viewer] closed")
	})
}

// notify shows a permission notice for a few seconds.
func (v *viewerImpl) notify(message string) {
	log.Printf("[Viewer] %s", message)
	v.mu.Lock()
	v.notice = message
	v.noticeLeft = noticeDuration
	v.mu.Unlock()
	if v.notifyHook != nil {
		v.notifyHook(message)
	}
}

// hud builds the title text: the page, the control hint and any live notice.
func (v *viewerImpl) hud() string {
	msgs := v.cfg.Messages
	page := "Explorer"
	if project, ok := v.cfg.ProjectForRoute(v.coordinator.Route()); ok {
		page = common.Coalesce(project.Title.Get(v.lang), project.ID)
	}

	var hint string
	switch v.session.Mode() {
	case control.ModeIdle:
		if v.session.IsMobileDevice() {
			hint = msgs.TapToExplore.Get(v.lang) + " · " + msgs.OrientationTip.Get(v.lang)
		} else {
			hint = msgs.ClickToExplore.Get(v.lang)
		}
	case control.ModeLockedManual:
		hint = msgs.ExitView.Get(v.lang) + " [Esc]"
		if v.session.IsMobileDevice() {
			hint += " · " + msgs.SensorOff.Get(v.lang) + " [T]"
		}
	case control.ModeLockedSensor:
		hint = msgs.ExitView.Get(v.lang) + " [Esc] · " + msgs.SensorOn.Get(v.lang) + " [T]"
	}

	parts := []string{page, hint}
	v.mu.Lock()
	if v.notice != "" {
		parts = append(parts, v.notice)
	}
	v.mu.Unlock()
	return strings.Join(parts, " | ")
}

func (v *viewerImpl) refreshTitle() {
	title := v.hud()
	v.mu.Lock()
	changed := title != v.title
	v.title = title
	v.mu.Unlock()
	if changed && v.win != nil {
		v.win.SetTitle(title)
	}
}
