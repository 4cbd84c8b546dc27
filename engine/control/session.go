package control

import (
	"context"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-explorer/engine/camera"
)

// Mode is the exploration state of a Session.
type Mode int

const (
	// ModeIdle means the pointer is free and no input moves the camera.
	ModeIdle Mode = iota
	// ModeLockedManual means keys, joysticks and the mouse drive the camera.
	ModeLockedManual
	// ModeLockedSensor means device orientation drives the look direction.
	ModeLockedSensor
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeLockedManual:
		return "locked-manual"
	case ModeLockedSensor:
		return "locked-sensor"
	}
	return "unknown"
}

// PointerLock captures and releases the desktop mouse cursor.
type PointerLock interface {
	LockPointer()
	UnlockPointer()
}

// Session is the control state machine. It owns the input state, decides which
// orientation path is live, and advances the camera pose once per frame.
// All methods are safe for concurrent use.
type Session interface {
	// StartExploring moves from idle to locked-manual. On desktop the pointer is
	// captured; on touch devices sensor permission is requested in the background
	// and sensor mode is entered if granted.
	//
	// Returns:
	//   - <-chan struct{}: closed when the transition, including any permission request, has settled
	StartExploring() <-chan struct{}

	// StopExploring returns to idle from any locked mode. Input is zeroed, the sensor
	// is released and the camera is reset to identity rotation at eye height.
	StopExploring()

	// ToggleSensorMode switches between locked-manual and locked-sensor on touch
	// devices. Permission is requested again on every switch into sensor mode.
	//
	// Returns:
	//   - <-chan struct{}: closed when the switch has settled
	ToggleSensorMode() <-chan struct{}

	// Mode returns the current state.
	//
	// Returns:
	//   - Mode: the current state
	Mode() Mode

	// IsLocked reports whether exploration is active.
	IsLocked() bool

	// IsMobileDevice reports whether the input device is touch-capable.
	IsMobileDevice() bool

	// IsSensorModeActive reports whether device orientation drives the look direction.
	IsSensorModeActive() bool

	// RefreshCapabilities re-evaluates whether the input device is touch-capable.
	// Called on resize and when a remote device connects or disconnects.
	RefreshCapabilities()

	// KeyDown records a key press.
	//
	// Parameters:
	//   - key: key code
	//
	// Returns:
	//   - bool: true if the key is a control key and exploration is active
	KeyDown(key int) bool

	// KeyUp records a key release.
	//
	// Parameters:
	//   - key: key code
	//
	// Returns:
	//   - bool: true if the key is a control key
	KeyUp(key int) bool

	// JoystickBegin starts a drag on a virtual joystick.
	//
	// Parameters:
	//   - stick: which joystick
	//   - p: drag start in pixels
	JoystickBegin(stick Stick, p Point)

	// JoystickMove updates a virtual joystick drag.
	//
	// Parameters:
	//   - stick: which joystick
	//   - p: current pointer position in pixels
	JoystickMove(stick Stick, p Point)

	// JoystickEnd releases a virtual joystick.
	//
	// Parameters:
	//   - stick: which joystick
	JoystickEnd(stick Stick)

	// Joystick returns the drag state of a virtual joystick.
	//
	// Parameters:
	//   - stick: which joystick
	//
	// Returns:
	//   - JoystickState: copy of the drag state
	Joystick(stick Stick) JoystickState

	// SetMovement sets the movement intent from an on-screen control. Zero releases it.
	//
	// Parameters:
	//   - v: movement intent
	SetMovement(v Vector2)

	// SetLook sets the look intent from an on-screen control. Zero releases it.
	//
	// Parameters:
	//   - v: look intent
	SetLook(v Vector2)

	// Movement returns the merged movement vector.
	Movement() Vector2

	// Look returns the look vector applied on the last frame.
	Look() Vector2

	// MouseMove applies a pointer-lock mouse delta immediately. Ignored unless the
	// pointer is captured in locked-manual mode.
	//
	// Parameters:
	//   - dx, dy: mouse movement in pixels
	MouseMove(dx, dy float32)

	// PointerLockLost reports that the platform released the pointer.
	PointerLockLost()

	// Reference returns the captured sensor reference, or nil.
	Reference() *OrientationReference

	// Frame advances the pose by dt seconds: orientation first, then movement.
	//
	// Parameters:
	//   - dt: frame time in seconds
	Frame(dt float32)

	// Close cancels in-flight permission requests, releases the sensor and resets the pose.
	Close()
}

type sessionImpl struct {
	mu *sync.Mutex
	wg *sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
	closed bool

	pose       camera.CameraController
	source     SensorSource
	negotiator *Negotiator
	pointer    PointerLock
	notify     Notifier
	messages   Messages

	fusionConfig FusionConfig
	fusion       *Fusion
	moveSpeed    float32
	integrator   *Integrator

	maxOffset   float32
	moveDamping float32
	lookDamping float32
	keys        *Keyboard
	moveStick   *Joystick
	lookStick   *Joystick
	mixer       *Mixer

	mode          Mode
	touch         bool
	pointerLocked bool
	generation    uint64

	platform Platform
	latest   *OrientationSample
}

var _ Session = &sessionImpl{}

// NewSession creates an idle control session.
//
// Parameters:
//   - options: functional options to configure the session
//
// Returns:
//   - Session: the newly created session
func NewSession(options ...SessionBuilderOption) Session {
	s := &sessionImpl{
		mu:           &sync.Mutex{},
		wg:           &sync.WaitGroup{},
		messages:     DefaultMessages(),
		fusionConfig: DefaultFusionConfig(),
		moveSpeed:    DefaultMoveSpeed,
		maxOffset:    20,
		moveDamping:  1.0,
		lookDamping:  MaxLookVelocity,
	}
	for _, option := range options {
		option(s)
	}

	if s.pose == nil {
		s.pose = camera.NewCameraController()
	}
	if s.notify == nil {
		s.notify = func(msg string) { log.Printf("[Session] %s", msg) }
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.negotiator = NewNegotiator(s.source, s.messages, s.notify)
	s.fusion = NewFusion(s.fusionConfig)
	s.integrator = NewIntegrator(s.moveSpeed)
	s.keys = NewKeyboard()
	s.moveStick = NewJoystick(s.maxOffset, s.moveDamping)
	s.lookStick = NewJoystick(s.maxOffset, s.lookDamping)
	s.mixer = NewMixer(s.keys, s.moveStick, s.lookStick)
	s.touch = s.negotiator.IsTouchDevice()
	return s
}

// --- transitions ---

func (s *sessionImpl) StartExploring() <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.closed || s.mode != ModeIdle {
		s.mu.Unlock()
		close(done)
		return done
	}
	s.mixer.Reset()
	s.touch = s.negotiator.IsTouchDevice()
	s.mode = ModeLockedManual
	s.generation++
	gen := s.generation
	touch := s.touch
	if !touch {
		s.pointerLocked = true
	}
	s.mu.Unlock()

	log.Printf("[Session] exploring started (touch=%t)", touch)
	if !touch {
		if s.pointer != nil {
			s.pointer.LockPointer()
		}
		close(done)
		return done
	}
	s.requestSensor(gen, done)
	return done
}

func (s *sessionImpl) StopExploring() {
	s.mu.Lock()
	if s.mode == ModeIdle {
		s.mu.Unlock()
		return
	}
	s.resetLocked()
	release := s.pointerLocked
	s.pointerLocked = false
	s.mu.Unlock()

	if release && s.pointer != nil {
		s.pointer.UnlockPointer()
	}
	log.Printf("[Session] exploring stopped")
}

func (s *sessionImpl) ToggleSensorMode() <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.closed || s.mode == ModeIdle || !s.touch {
		s.mu.Unlock()
		close(done)
		return done
	}
	s.generation++
	gen := s.generation
	if s.mode == ModeLockedSensor {
		s.leaveSensorLocked()
		s.mu.Unlock()
		close(done)
		return done
	}
	s.mu.Unlock()

	s.requestSensor(gen, done)
	return done
}

// requestSensor resolves permission off the caller's goroutine and enters sensor
// mode only if nothing else happened to the session in the meantime.
func (s *sessionImpl) requestSensor(gen uint64, done chan struct{}) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)

		result, err := s.negotiator.RequestOrientationPermission(s.ctx)

		s.mu.Lock()
		if s.closed || gen != s.generation || s.mode != ModeLockedManual {
			s.mu.Unlock()
			log.Printf("[Session] discarding stale permission result (%s)", result)
			return
		}
		if err != nil || result != PermissionGranted {
			s.mu.Unlock()
			log.Printf("[Session] staying in manual mode: result=%s err=%v", result, err)
			return
		}
		s.enterSensorLocked()
		s.mu.Unlock()

		s.negotiator.NotifyEnabled()
	}()
}

// enterSensorLocked switches to the sensor path. Caller must hold the mutex.
func (s *sessionImpl) enterSensorLocked() {
	s.fusion.BeginSensor(s.pose)
	s.latest = nil
	s.platform = s.source.Platform()
	s.lookStick.End()
	s.mixer.SetOverlayLook(Vector2{})
	s.mode = ModeLockedSensor
	s.source.Subscribe(s.onSample)
	log.Printf("[Session] sensor mode active")
}

// leaveSensorLocked returns to the manual path. The manual path reads the live
// pose, so it continues from wherever the sensor left the camera.
// Caller must hold the mutex.
func (s *sessionImpl) leaveSensorLocked() {
	if s.source != nil {
		s.source.Unsubscribe()
	}
	s.fusion.EndSensor()
	s.latest = nil
	s.mode = ModeLockedManual
	log.Printf("[Session] sensor mode released")
}

// resetLocked performs the common teardown for stop and close. Caller must hold the mutex.
func (s *sessionImpl) resetLocked() {
	s.generation++
	if s.source != nil {
		s.source.Unsubscribe()
	}
	s.fusion.EndSensor()
	s.latest = nil
	s.mixer.Reset()
	s.mode = ModeIdle
	s.pose.Reset()
}

func (s *sessionImpl) onSample(sample OrientationSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLockedSensor {
		return
	}
	s.latest = &sample
}

// --- queries ---

func (s *sessionImpl) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *sessionImpl) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode != ModeIdle
}

func (s *sessionImpl) IsMobileDevice() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch
}

func (s *sessionImpl) IsSensorModeActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode == ModeLockedSensor
}

func (s *sessionImpl) Reference() *OrientationReference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fusion.Reference()
}

func (s *sessionImpl) RefreshCapabilities() {
	s.mu.Lock()
	touch := s.negotiator.IsTouchDevice()
	if touch == s.touch {
		s.mu.Unlock()
		return
	}
	s.touch = touch
	var lock, unlock bool
	if s.mode != ModeIdle {
		s.generation++
		if s.mode == ModeLockedSensor {
			s.leaveSensorLocked()
		}
		lock = !touch && !s.pointerLocked
		unlock = touch && s.pointerLocked
		s.pointerLocked = !touch
	}
	s.mu.Unlock()

	log.Printf("[Session] touch capability changed to %t", touch)
	if s.pointer == nil {
		return
	}
	if lock {
		s.pointer.LockPointer()
	}
	if unlock {
		s.pointer.UnlockPointer()
	}
}

// --- input ---

func (s *sessionImpl) KeyDown(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeIdle {
		return false
	}
	return s.keys.Press(key)
}

func (s *sessionImpl) KeyUp(key int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys.Release(key)
}

func (s *sessionImpl) stick(stick Stick) *Joystick {
	if stick == StickLook {
		return s.lookStick
	}
	return s.moveStick
}

func (s *sessionImpl) JoystickBegin(stick Stick, p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeIdle {
		return
	}
	s.stick(stick).Begin(p)
}

func (s *sessionImpl) JoystickMove(stick Stick, p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stick(stick).Drag(p)
}

func (s *sessionImpl) JoystickEnd(stick Stick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stick(stick).End()
}

func (s *sessionImpl) Joystick(stick Stick) JoystickState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stick(stick).State()
}

func (s *sessionImpl) SetMovement(v Vector2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mixer.SetOverlayMovement(v)
}

func (s *sessionImpl) SetLook(v Vector2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeLockedSensor {
		return
	}
	s.mixer.SetOverlayLook(v)
}

func (s *sessionImpl) Movement() Vector2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mixer.Movement()
}

func (s *sessionImpl) Look() Vector2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mixer.Look()
}

func (s *sessionImpl) MouseMove(dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeLockedManual || !s.pointerLocked {
		return
	}
	s.fusion.ApplyMouse(s.pose, dx, dy)
}

func (s *sessionImpl) PointerLockLost() {
	s.mu.Lock()
	locked := s.pointerLocked && s.mode != ModeIdle
	s.pointerLocked = false
	s.mu.Unlock()

	if locked {
		s.StopExploring()
	}
}

// --- frame ---

func (s *sessionImpl) Frame(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.mode == ModeIdle {
		return
	}

	k60 := FrameScale(dt)
	look := s.mixer.StepLook(k60)

	switch s.mode {
	case ModeLockedManual:
		s.fusion.ApplyManual(s.pose, look, k60)
	case ModeLockedSensor:
		if s.latest != nil {
			s.fusion.ApplySensor(s.pose, *s.latest, s.platform, dt)
			// With smoothing the last target keeps easing in until a new sample arrives.
			if !s.fusionConfig.Smoothing {
				s.latest = nil
			}
		}
	}

	s.integrator.Step(s.pose, s.mixer.Movement(), k60)
}

func (s *sessionImpl) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	s.resetLocked()
	release := s.pointerLocked
	s.pointerLocked = false
	s.mu.Unlock()

	if release && s.pointer != nil {
		s.pointer.UnlockPointer()
	}
	s.wg.Wait()
}
