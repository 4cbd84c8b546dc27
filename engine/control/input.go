package control

// Mixer merges keyboard, joystick and overlay sources into the movement and look vectors.
// Per channel, an active joystick wins over an overlay value, which wins over the
// keyboard. A channel reads zero only when every source feeding it is idle.
// Not safe for concurrent use; the Session serializes access.
type Mixer struct {
	keys      *Keyboard
	moveStick *Joystick
	lookStick *Joystick

	overlayMove Vector2
	overlayLook Vector2

	look Vector2
}

// NewMixer creates a mixer over the given sources.
func NewMixer(keys *Keyboard, moveStick, lookStick *Joystick) *Mixer {
	return &Mixer{keys: keys, moveStick: moveStick, lookStick: lookStick}
}

// SetOverlayMovement sets the movement value supplied by UI buttons. Zero marks it idle.
func (m *Mixer) SetOverlayMovement(v Vector2) {
	m.overlayMove = v
}

// SetOverlayLook sets the look value supplied by UI buttons. Zero marks it idle.
func (m *Mixer) SetOverlayLook(v Vector2) {
	m.overlayLook = v
}

// Movement returns the merged movement vector.
func (m *Mixer) Movement() Vector2 {
	switch {
	case m.moveStick.Active():
		return m.moveStick.Output()
	case !m.overlayMove.IsZero():
		return m.overlayMove
	case m.keys.MovementActive():
		return m.keys.Movement()
	}
	return Vector2{}
}

// StepLook advances the keyboard look velocity and returns the merged look vector.
//
// Parameters:
//   - k60: frame scale relative to a 60 Hz frame
//
// Returns:
//   - Vector2: the look vector for this frame
func (m *Mixer) StepLook(k60 float32) Vector2 {
	keyLook := m.keys.StepLook(k60)
	switch {
	case m.lookStick.Active():
		m.look = m.lookStick.Output()
	case !m.overlayLook.IsZero():
		m.look = m.overlayLook
	default:
		m.look = keyLook
	}
	return m.look
}

// Look returns the look vector computed by the last StepLook.
func (m *Mixer) Look() Vector2 {
	return m.look
}

// Reset idles every source.
func (m *Mixer) Reset() {
	m.keys.Reset()
	m.moveStick.End()
	m.lookStick.End()
	m.overlayMove = Vector2{}
	m.overlayLook = Vector2{}
	m.look = Vector2{}
}
