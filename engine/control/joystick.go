package control

// Stick identifies one of the two virtual joysticks.
type Stick int

const (
	// StickMove drives the movement vector.
	StickMove Stick = iota
	// StickLook drives the look vector.
	StickLook
)

func (s Stick) String() string {
	switch s {
	case StickMove:
		return "move"
	case StickLook:
		return "look"
	}
	return "unknown"
}

// JoystickState is the drag state of one virtual joystick.
type JoystickState struct {
	Active bool
	Start  *Point
	Offset Vector2
}

// Joystick converts a drag from its start point into a clamped, damped vector.
// Not safe for concurrent use; the Session serializes access.
type Joystick struct {
	state JoystickState

	maxOffset float32
	damping   float32
}

// NewJoystick creates an idle joystick.
//
// Parameters:
//   - maxOffset: drag radius in pixels beyond which the offset is clamped
//   - damping: output scale at full deflection
//
// Returns:
//   - *Joystick: the joystick
func NewJoystick(maxOffset, damping float32) *Joystick {
	if maxOffset <= 0 {
		maxOffset = 20
	}
	return &Joystick{maxOffset: maxOffset, damping: damping}
}

// Begin starts a drag at p.
func (j *Joystick) Begin(p Point) {
	start := p
	j.state = JoystickState{Active: true, Start: &start}
}

// Drag updates the drag with the current pointer position and returns the output vector.
// Returns the zero vector when no drag is in progress.
func (j *Joystick) Drag(p Point) Vector2 {
	if !j.state.Active || j.state.Start == nil {
		return Vector2{}
	}
	d := Vector2{X: p.X - j.state.Start.X, Y: p.Y - j.state.Start.Y}
	if l := d.Len(); l > j.maxOffset {
		d = d.Scale(j.maxOffset / l)
	}
	j.state.Offset = d
	return j.Output()
}

// End finishes the drag and resets the state.
func (j *Joystick) End() {
	j.state = JoystickState{}
}

// Active reports whether a drag is in progress.
func (j *Joystick) Active() bool {
	return j.state.Active
}

// Output returns offset / maxOffset * damping.
func (j *Joystick) Output() Vector2 {
	if !j.state.Active {
		return Vector2{}
	}
	return j.state.Offset.Scale(j.damping / j.maxOffset)
}

// State returns a copy of the drag state.
func (j *Joystick) State() JoystickState {
	s := j.state
	if s.Start != nil {
		start := *s.Start
		s.Start = &start
	}
	return s
}
