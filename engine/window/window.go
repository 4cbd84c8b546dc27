package window

import (
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// MouseButton identifies a mouse button in press and release callbacks.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Window provides platform windowing and input event handling.
// Event callbacks run on the thread that calls ProcessMessages. Every other method
// except the callback setters is safe to call from any goroutine; calls that the
// platform requires on the main thread are queued and run by ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical scroll delta
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code (see common.Key*)
	SetKeyDownCallback(callback func(key int))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code (see common.Key*)
	SetKeyUpCallback(callback func(key int))

	// SetMouseDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button and cursor position in pixels
	SetMouseDownCallback(callback func(button MouseButton, x, y float32))

	// SetMouseUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the button and cursor position in pixels
	SetMouseUpCallback(callback func(button MouseButton, x, y float32))

	// SetMouseMoveCallback sets the callback for cursor movement. The delta is
	// relative to the previous event and is zero on the first event after the
	// pointer is locked or unlocked.
	//
	// Parameters:
	//   - callback: function receiving the cursor position and its delta in pixels
	SetMouseMoveCallback(callback func(x, y, dx, dy float32))

	// SetFocusCallback sets the callback for window focus changes.
	//
	// Parameters:
	//   - callback: function receiving true when focus is gained, false when lost
	SetFocusCallback(callback func(focused bool))

	// LockPointer hides the cursor and captures it in the window so mouse movement
	// reports unbounded deltas.
	LockPointer()

	// UnlockPointer releases a captured cursor.
	UnlockPointer()

	// PointerLocked reports whether the cursor is captured.
	//
	// Returns:
	//   - bool: true if the cursor is captured
	PointerLocked() bool

	// SetTitle changes the title bar text.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// Post queues fn to run on the window thread during the next ProcessMessages
	// iteration.
	//
	// Parameters:
	//   - fn: the function to run
	Post(fn func())

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to exit after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Runs queued functions and the update
	// callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// Limits applied to user resizing of a windowed viewer.
const (
	MinWidth  = 640
	MinHeight = 360
	MaxWidth  = 3840
	MaxHeight = 2160
)

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// fullscreen opens the window on the primary monitor at its current video mode.
	fullscreen bool

	// sizeMu guards width and height, which are written by the resize callback
	// and read from the tick goroutine.
	sizeMu *sync.Mutex
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// pendingMu guards pending and pointerLocked.
	pendingMu     *sync.Mutex
	pending       []func()
	pointerLocked bool

	// cursor tracking for deltas; main thread only
	hasCursor      bool
	cursorX        float64
	cursorY        float64
	rawMouseMotion bool

	onUpdate    func()
	onResize    func(width, height int)
	onScroll    func(delta float32)
	onKeyDown   func(key int)
	onKeyUp     func(key int)
	onMouseDown func(button MouseButton, x, y float32)
	onMouseUp   func(button MouseButton, x, y float32)
	onMouseMove func(x, y, dx, dy float32)
	onFocus     func(focused bool)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Must be called from the main goroutine; the calling OS thread is locked to it.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "Explorer",
		width:     1280,
		height:    720,
		sizeMu:    &sync.Mutex{},
		pendingMu: &sync.Mutex{},
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key int)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(key int)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseDownCallback(callback func(button MouseButton, x, y float32)) {
	w.onMouseDown = callback
}

func (w *engineWindow) SetMouseUpCallback(callback func(button MouseButton, x, y float32)) {
	w.onMouseUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y, dx, dy float32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetFocusCallback(callback func(focused bool)) {
	w.onFocus = callback
}

func (w *engineWindow) LockPointer() {
	w.pendingMu.Lock()
	w.pointerLocked = true
	w.pendingMu.Unlock()
	w.Post(func() { platformSetPointerLocked(w, true) })
}

func (w *engineWindow) UnlockPointer() {
	w.pendingMu.Lock()
	w.pointerLocked = false
	w.pendingMu.Unlock()
	w.Post(func() { platformSetPointerLocked(w, false) })
}

func (w *engineWindow) PointerLocked() bool {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	return w.pointerLocked
}

func (w *engineWindow) SetTitle(title string) {
	w.Post(func() { platformSetTitle(w, title) })
}

func (w *engineWindow) Post(fn func()) {
	w.pendingMu.Lock()
	w.pending = append(w.pending, fn)
	w.pendingMu.Unlock()
}

// runPending runs and clears the queued main-thread functions.
func (w *engineWindow) runPending() {
	w.pendingMu.Lock()
	queued := w.pending
	w.pending = nil
	w.pendingMu.Unlock()

	for _, fn := range queued {
		fn()
	}
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.Post(func() { platformRequestClose(w) })
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.runPending()

		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.sizeMu.Lock()
	defer w.sizeMu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.sizeMu.Lock()
	defer w.sizeMu.Unlock()
	return w.height
}

func (w *engineWindow) setSize(width, height int) {
	w.sizeMu.Lock()
	w.width = width
	w.height = height
	w.sizeMu.Unlock()
}

// cursorDelta records a cursor position and returns the movement since the last one.
func (w *engineWindow) cursorDelta(x, y float64) (dx, dy float64) {
	if w.hasCursor {
		dx = x - w.cursorX
		dy = y - w.cursorY
	}
	w.hasCursor = true
	w.cursorX = x
	w.cursorY = y
	return dx, dy
}
