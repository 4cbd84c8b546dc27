package viewer

import (
	"github.com/Carmen-Shannon/oxy-explorer/common"
	"github.com/Carmen-Shannon/oxy-explorer/engine/control"
	"github.com/Carmen-Shannon/oxy-explorer/engine/window"
)

// KeyDown handles a key press. Enter starts exploring, Escape stops, T toggles the
// sensor, 1-9 open the matching project and 0 returns home. Other keys go to the
// session.
func (v *viewerImpl) KeyDown(key int) {
	switch {
	case key == common.KeyEnter:
		if !v.session.IsLocked() {
			v.session.StartExploring()
			v.refreshTitle()
		}
	case key == common.KeyEsc:
		v.session.StopExploring()
		v.releaseJoystick()
		v.refreshTitle()
	case key == common.KeyT:
		v.session.ToggleSensorMode()
	case key == common.Key0:
		v.Navigate("/")
	case key >= common.Key1 && key <= common.Key9:
		i := key - common.Key1
		if i < len(v.cfg.Projects) {
			v.Navigate(v.cfg.Projects[i].Route())
		}
	default:
		v.session.KeyDown(key)
	}
}

// KeyUp handles a key release.
func (v *viewerImpl) KeyUp(key int) {
	v.session.KeyUp(key)
}

// joysticksEnabled reports whether mouse drags drive the on-screen joysticks.
func (v *viewerImpl) joysticksEnabled() bool {
	return v.touchEmulation || v.session.IsMobileDevice()
}

// stickAt returns the joystick whose screen quadrant contains (x, y): bottom-left
// moves, bottom-right looks. The top half has no joystick.
func (v *viewerImpl) stickAt(x, y float32) (control.Stick, bool) {
	v.mu.Lock()
	width, height := float32(v.width), float32(v.height)
	v.mu.Unlock()
	if y < height/2 {
		return 0, false
	}
	if x < width/2 {
		return control.StickMove, true
	}
	return control.StickLook, true
}

// MouseDown handles a mouse press. A left click starts exploring when idle and
// otherwise grabs the joystick under the cursor.
func (v *viewerImpl) MouseDown(button window.MouseButton, x, y float32) {
	if button != window.MouseButtonLeft {
		return
	}
	if !v.session.IsLocked() {
		v.session.StartExploring()
		v.refreshTitle()
		return
	}
	if !v.joysticksEnabled() {
		return
	}
	stick, ok := v.stickAt(x, y)
	if !ok {
		return
	}
	v.session.JoystickBegin(stick, control.Point{X: x, Y: y})
	v.mu.Lock()
	v.dragging = &stick
	v.mu.Unlock()
}

// MouseUp releases a held joystick.
func (v *viewerImpl) MouseUp(button window.MouseButton, x, y float32) {
	if button != window.MouseButtonLeft {
		return
	}
	v.releaseJoystick()
}

// MouseMove drags a held joystick, or turns the camera when the pointer is locked.
func (v *viewerImpl) MouseMove(x, y, dx, dy float32) {
	v.mu.Lock()
	dragging := v.dragging
	v.mu.Unlock()
	if dragging != nil {
		v.session.JoystickMove(*dragging, control.Point{X: x, Y: y})
		return
	}
	v.session.MouseMove(dx, dy)
}

// FocusChanged treats a focus loss as the pointer being released.
func (v *viewerImpl) FocusChanged(focused bool) {
	if focused {
		return
	}
	v.releaseJoystick()
	v.session.PointerLockLost()
	v.refreshTitle()
}

// Resize updates the projection and re-evaluates touch input.
// A minimized window reports zero and keeps the previous layout.
func (v *viewerImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.mu.Lock()
	v.width, v.height = width, height
	v.mu.Unlock()
	v.cam.Resize(width, height)
	v.RefreshCapabilities()
}

func (v *viewerImpl) releaseJoystick() {
	v.mu.Lock()
	dragging := v.dragging
	v.dragging = nil
	v.mu.Unlock()
	if dragging != nil {
		v.session.JoystickEnd(*dragging)
	}
}
